// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, compression, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/akashparashar014/Video-Genration/docs" // registers the OpenAPI document
	"github.com/akashparashar014/Video-Genration/internal/config"
	"github.com/akashparashar014/Video-Genration/internal/domain"
	"github.com/akashparashar014/Video-Genration/internal/http/handlers"
	"github.com/akashparashar014/Video-Genration/internal/http/middleware"
	"github.com/akashparashar014/Video-Genration/internal/media"
	"github.com/akashparashar014/Video-Genration/internal/repo"
	"github.com/akashparashar014/Video-Genration/internal/services"
)

const (
	// defaultMaxBodyBytes applies when the configured cap is not positive.
	defaultMaxBodyBytes = 32 << 20
	// generationCost is the rate-limit token charge of a provider-backed
	// generation, which starts a paid remote job.
	generationCost = 3
)

// userRepoShim adapts the repository free functions to services.UserRepo.
type userRepoShim struct{}

// CreateUser proxies repo.CreateUser.
func (userRepoShim) CreateUser(ctx context.Context, db *gorm.DB, username, email, passwordHash string) (*domain.User, error) {
	return repo.CreateUser(ctx, db, username, email, passwordHash)
}

// ListUsers proxies repo.ListUsers.
func (userRepoShim) ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	return repo.ListUsers(ctx, db)
}

// audioRepoShim adapts the repository free functions to services.AudioRepo.
type audioRepoShim struct{}

// CreateAudio proxies repo.CreateAudio.
func (audioRepoShim) CreateAudio(ctx context.Context, db *gorm.DB, filename string, sizeKB float64, data []byte) (*domain.AudioFile, error) {
	return repo.CreateAudio(ctx, db, filename, sizeKB, data)
}

// GetAudioByFilename proxies repo.GetAudioByFilename.
func (audioRepoShim) GetAudioByFilename(ctx context.Context, db *gorm.DB, filename string) (*domain.AudioFile, error) {
	return repo.GetAudioByFilename(ctx, db, filename)
}

// ListAudio proxies repo.ListAudio.
func (audioRepoShim) ListAudio(ctx context.Context, db *gorm.DB) ([]domain.AudioFile, error) {
	return repo.ListAudio(ctx, db)
}

// AudioStats proxies repo.AudioStats (ETag support).
func (audioRepoShim) AudioStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	return repo.AudioStats(ctx, db)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. vp is the remote video provider used by the real generation
// endpoint; the dummy endpoint never calls it.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing + request logger
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per client IP, bypass on replay)
//  9. CORS and Security headers
//  10. gzip (audio playback and /metrics excluded)
func RegisterRoutes(r *gin.Engine, db *gorm.DB, vp services.VideoProvider, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (uploads included)
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	r.Use(limitBody(maxBody))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
			_, err := repo.GetIdempotency(ctx, db, scope, key, now)
			switch {
			case err == nil:
				return true, nil
			case errors.Is(err, repo.ErrNotFound):
				return false, nil
			default:
				return false, err
			}
		},
	))

	// 8) Token-bucket rate limiter per client IP; generation costs more
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP()).
		WithCost(middleware.CostByRoute(generationCost, "/api/v1/generate-video/"))
	r.Use(rl.Handler())

	// 9) CORS posture (allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.HeaderIdempotencyKey}
	allowMethods := []string{"GET", "POST", "OPTIONS"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     allowMethods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist.
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     allowMethods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:        cfg.Security.EnableHSTS,
		HSTSMaxAge:        cfg.Security.HSTSMaxAge,
		EnablePolicy:      true,
		NoStorePrefixes:   []string{"/users/"},
		CSPExemptPrefixes: []string{"/swagger/"},
	}))

	// 10) Compression for JSON; audio is already compressed.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/play/", "/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "Video generation API is running"}) })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/provider
	userSvc := services.NewUserService(db, userRepoShim{})
	audioSvc := services.NewAudioService(db, audioRepoShim{}, cfg.AudioExtension)
	genSvc := newGenerationService(db, vp, cfg)
	h := handlers.New(userSvc, audioSvc, genSvc)

	// Users
	r.POST("/users/", h.CreateUser)
	r.GET("/users/", h.ListUsers)

	// Audio
	r.POST("/upload/", h.UploadAudio)
	r.GET("/play/:filename", h.PlayAudio)
	r.GET("/list/", h.ListAudio)

	// Video generation (real provider)
	v1 := groupWithPrefix(r, "/api/v1")
	{
		v1.POST("/generate-video/", h.GenerateVideo)
		v1.GET("/status/:task_id", h.GetVideoStatus)
	}

	// Video generation (dummy provider)
	v2 := groupWithPrefix(r, "/api/v2")
	{
		v2.POST("/generate-video-1/", h.GenerateDummyVideo)
		v2.GET("/status-1/:task_id", h.GetDummyVideoStatus)
	}
}

// newGenerationService builds the workflow service from configuration,
// keeping service defaults for unset values.
func newGenerationService(db *gorm.DB, vp services.VideoProvider, cfg config.Config) *services.GenerationService {
	g := cfg.Generation
	svc := services.NewGenerationService(db, vp, transformerFrom(cfg.Thumbnail), g.MaxConcurrentJobs, g.StatusCacheSize)
	if g.PollInterval > 0 {
		svc.PollInterval = g.PollInterval
	}
	if g.MaxAttempts > 0 {
		svc.MaxAttempts = g.MaxAttempts
	}
	if g.DummyVideoURL != "" {
		svc.DummyURL = g.DummyVideoURL
	}
	if cfg.IdempotencyTTL > 0 {
		svc.IdempotencyTTL = cfg.IdempotencyTTL
	}
	svc.UploadDir = g.UploadDir
	return svc
}

// transformerFrom overlays positive thumbnail settings on the defaults.
func transformerFrom(tc config.ThumbnailConfig) media.Transformer {
	tr := media.DefaultTransformer()
	if tc.MaxWidth > 0 {
		tr.MaxWidth = tc.MaxWidth
	}
	if tc.MaxHeight > 0 {
		tr.MaxHeight = tc.MaxHeight
	}
	if tc.Quality > 0 {
		tr.Quality = tc.Quality
	}
	if tc.MaxEncodedLen > 0 {
		tr.MaxEncodedLen = tc.MaxEncodedLen
	}
	return tr
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
