package handlers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akashparashar014/Video-Genration/internal/domain"
	"github.com/akashparashar014/Video-Genration/internal/http/middleware"
	"github.com/akashparashar014/Video-Genration/internal/media"
	"github.com/akashparashar014/Video-Genration/internal/provider"
	"github.com/akashparashar014/Video-Genration/internal/repo"
	"github.com/akashparashar014/Video-Genration/internal/services"
)

// ---------- test DB + repo shims ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Minimal shims implementing the service repo contracts (like router.go).
type testUserRepo struct{}

func (testUserRepo) CreateUser(ctx context.Context, db *gorm.DB, username, email, hash string) (*domain.User, error) {
	return repo.CreateUser(ctx, db, username, email, hash)
}

func (testUserRepo) ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	return repo.ListUsers(ctx, db)
}

type testAudioRepo struct{}

func (testAudioRepo) CreateAudio(ctx context.Context, db *gorm.DB, filename string, sizeKB float64, data []byte) (*domain.AudioFile, error) {
	return repo.CreateAudio(ctx, db, filename, sizeKB, data)
}

func (testAudioRepo) GetAudioByFilename(ctx context.Context, db *gorm.DB, filename string) (*domain.AudioFile, error) {
	return repo.GetAudioByFilename(ctx, db, filename)
}

func (testAudioRepo) ListAudio(ctx context.Context, db *gorm.DB) ([]domain.AudioFile, error) {
	return repo.ListAudio(ctx, db)
}

func (testAudioRepo) AudioStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	return repo.AudioStats(ctx, db)
}

// ---------- scripted provider ----------

type stubProvider struct {
	mu      sync.Mutex
	id      string
	poll    provider.Task
	submits int
}

func (p *stubProvider) Submit(context.Context, string, string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submits++
	return p.id, nil
}

func (p *stubProvider) Poll(_ context.Context, id string) (provider.Task, error) {
	t := p.poll
	t.ID = id
	return t, nil
}

func (p *stubProvider) submitCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submits
}

// ---------- server ----------

type testServer struct {
	r   *gin.Engine
	db  *gorm.DB
	gen *services.GenerationService
}

func newTestServer(t *testing.T, p services.VideoProvider) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newHandlerDB(t)
	gen := services.NewGenerationService(db, p, media.DefaultTransformer(), 2, 8)
	gen.PollInterval = time.Millisecond
	gen.MaxAttempts = 3

	h := New(
		services.NewUserService(db, testUserRepo{}),
		services.NewAudioService(db, testAudioRepo{}, ".mp3"),
		gen,
	)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{},
		func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, scope, key, now)
			return err == nil && rec != nil, nil
		}))

	r.POST("/users/", h.CreateUser)
	r.GET("/users/", h.ListUsers)
	r.POST("/upload/", h.UploadAudio)
	r.GET("/play/:filename", h.PlayAudio)
	r.GET("/list/", h.ListAudio)
	r.POST("/api/v1/generate-video/", h.GenerateVideo)
	r.GET("/api/v1/status/:task_id", h.GetVideoStatus)
	r.POST("/api/v2/generate-video-1/", h.GenerateDummyVideo)
	r.GET("/api/v2/status-1/:task_id", h.GetDummyVideoStatus)

	return &testServer{r: r, db: db, gen: gen}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

// ---------- request builders ----------

// multipartRequest builds a POST with one file part plus plain fields.
func multipartRequest(t *testing.T, url, field, filename, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if field != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 80, 20, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}
