// Package services – GenerationService
//
// This file implements the image-to-video workflow:
//
//	VALIDATING -> TRANSFORMING -> SUBMITTED -> POLLING -> SUCCEEDED | FAILED | TIMED_OUT
//
// Input is checked before any transform or remote call. The thumbnail is
// submitted to the injected VideoProvider, which is then polled at a fixed
// interval up to a fixed number of attempts. Only a SUCCEEDED job is
// persisted. The wait between polls honours context cancellation and each run
// holds one slot of a bounded worker pool for the duration of submit+poll.
//
// A dummy variant skips the provider entirely and always succeeds with a
// locally generated UUID and a placeholder URL.
//
// Observability: public methods are OpenTelemetry-instrumented and log
// through the request-scoped zerolog logger found in the context.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/akashparashar014/Video-Genration/internal/domain"
	"github.com/akashparashar014/Video-Genration/internal/media"
	"github.com/akashparashar014/Video-Genration/internal/provider"
	"github.com/akashparashar014/Video-Genration/internal/repo"
)

// DefaultDummyVideoURL is returned by the dummy variant.
const DefaultDummyVideoURL = "https://www.example.com/dummy_video.mp4"

// Messages surfaced to clients for terminal failures.
const (
	msgUnsupportedImage = "Only JPEG, JPG and PNG images are supported"
	msgTooLarge         = "Image too large after encoding. Please resize further."
	msgTimedOut         = "Video generation timed out"
)

// VideoProvider is the remote job API used by the workflow.
type VideoProvider interface {
	// Submit starts a job and returns its id.
	Submit(ctx context.Context, promptImage, promptText string) (string, error)
	// Poll performs one status check.
	Poll(ctx context.Context, id string) (provider.Task, error)
}

// GenerateInput is one generation request.
type GenerateInput struct {
	Prompt      string
	Filename    string
	ContentType string
	Data        []byte

	// IdempotencyScope and IdempotencyKey, when both set, are stored with
	// the record so a retry can be replayed via Replay.
	IdempotencyScope string
	IdempotencyKey   string
}

// GenerationService runs the generation workflow and serves status lookups.
type GenerationService struct {
	DB          *gorm.DB
	Provider    VideoProvider
	Transformer media.Transformer

	PollInterval time.Duration
	MaxAttempts  int

	// Workers bounds concurrent submit+poll runs; nil means unbounded.
	Workers *semaphore.Weighted
	// Cache holds status views by task id, without image payloads. Records
	// are write-once, so entries never go stale. Nil disables caching.
	Cache *lru.Cache[string, domain.GeneratedVideo]

	// flights collapses concurrent runs sharing an Idempotency-Key into one
	// provider job.
	flights singleflight.Group

	DummyURL  string
	UploadDir string // optional archive of original uploads
	NewID     func() string

	IdempotencyTTL time.Duration
}

// NewGenerationService builds a service with the default poll budget
// (5s x 60), maxJobs worker slots, and a cacheSize-entry status cache.
func NewGenerationService(db *gorm.DB, p VideoProvider, tr media.Transformer, maxJobs, cacheSize int) *GenerationService {
	s := &GenerationService{
		DB:             db,
		Provider:       p,
		Transformer:    tr,
		PollInterval:   5 * time.Second,
		MaxAttempts:    60,
		DummyURL:       DefaultDummyVideoURL,
		NewID:          uuid.NewString,
		IdempotencyTTL: 24 * time.Hour,
	}
	if maxJobs > 0 {
		s.Workers = semaphore.NewWeighted(int64(maxJobs))
	}
	if cacheSize > 0 {
		if c, err := lru.New[string, domain.GeneratedVideo](cacheSize); err == nil {
			s.Cache = c
		}
	}
	return s
}

// Generate runs the real-provider workflow and returns the persisted record.
//
// Errors:
//   - ErrValidation: empty prompt or image, unsupported or undecodable image.
//   - ErrPayloadTooLarge: thumbnail over the ceiling.
//   - ErrBusy: no worker slot available.
//   - ErrProvider: submit or poll failed.
//   - ErrGenerationFailed: provider reported FAILED.
//   - ErrTimeout: still pending after MaxAttempts polls.
//   - ErrCanceled: ctx ended while waiting.
//   - ErrConflict / ErrPersistence: the record could not be stored.
func (s *GenerationService) Generate(ctx context.Context, in GenerateInput) (rec *domain.GeneratedVideo, err error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("image.content_type", in.ContentType),
			attribute.Int("image.bytes", len(in.Data)),
		),
	)
	defer func() { finishSpan(span, err) }()
	defer func() { genJobs.WithLabelValues(variantProvider, outcomeOf(err)).Inc() }()

	if in.IdempotencyScope == "" || in.IdempotencyKey == "" {
		return s.run(ctx, in)
	}

	v, err, shared := s.flights.Do(in.IdempotencyScope+"\x00"+in.IdempotencyKey, func() (any, error) {
		// A run that finished before this flight started has already
		// bound the key.
		if prev, err := s.Replay(ctx, in.IdempotencyScope, in.IdempotencyKey); err == nil {
			span.SetAttributes(attribute.Bool("idempotency.replay", true))
			return prev, nil
		}
		return s.run(ctx, in)
	})
	span.SetAttributes(attribute.Bool("idempotency.shared", shared))
	if err != nil {
		return nil, err
	}
	return v.(*domain.GeneratedVideo), nil
}

// run executes one provider job from validation to persistence.
func (s *GenerationService) run(ctx context.Context, in GenerateInput) (*domain.GeneratedVideo, error) {
	thumb, err := s.prepare(ctx, &in)
	if err != nil {
		return nil, err
	}

	if s.Workers != nil {
		if !s.Workers.TryAcquire(1) {
			return nil, ErrBusy
		}
		defer s.Workers.Release(1)
	}
	genInflight.Inc()
	defer genInflight.Dec()

	lg := zerolog.Ctx(ctx)

	taskID, err := s.Provider.Submit(ctx, thumb, in.Prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: submit: %v", ErrProvider, err)
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("task.id", taskID))
	lg.Info().Str("task_id", taskID).Msg("generation job submitted")

	url, err := s.await(ctx, taskID)
	if err != nil {
		lg.Warn().Err(err).Str("task_id", taskID).Msg("generation job did not succeed")
		return nil, err
	}

	rec := &domain.GeneratedVideo{
		TaskID:        taskID,
		Prompt:        in.Prompt,
		OriginalImage: in.Data,
		Base64Image:   thumb,
		VideoURL:      url,
	}
	if err := s.persist(ctx, rec, in); err != nil {
		return nil, err
	}
	s.archive(ctx, taskID, in)
	lg.Info().Str("task_id", taskID).Msg("generation job succeeded")
	return rec, nil
}

// GenerateDummy validates and transforms like Generate, then stores a record
// with a fresh UUID and DummyURL without contacting the provider.
func (s *GenerationService) GenerateDummy(ctx context.Context, in GenerateInput) (rec *domain.GeneratedVideo, err error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "GenerateDummy",
		trace.WithAttributes(attribute.String("image.content_type", in.ContentType)),
	)
	defer func() { finishSpan(span, err) }()
	defer func() { genJobs.WithLabelValues(variantDummy, outcomeOf(err)).Inc() }()

	thumb, err := s.prepare(ctx, &in)
	if err != nil {
		return nil, err
	}

	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	url := s.DummyURL
	if url == "" {
		url = DefaultDummyVideoURL
	}

	rec = &domain.GeneratedVideo{
		TaskID:        newID(),
		Prompt:        in.Prompt,
		OriginalImage: in.Data,
		Base64Image:   thumb,
		VideoURL:      url,
	}
	span.SetAttributes(attribute.String("task.id", rec.TaskID))
	if err := s.persist(ctx, rec, in); err != nil {
		return nil, err
	}
	s.archive(ctx, rec.TaskID, in)
	zerolog.Ctx(ctx).Info().Str("task_id", rec.TaskID).Msg("dummy generation stored")
	return rec, nil
}

// Status returns the stored record for taskID, or ErrNotFound.
func (s *GenerationService) Status(ctx context.Context, taskID string) (*domain.GeneratedVideo, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "Status",
		trace.WithAttributes(attribute.String("task.id", taskID)),
	)
	defer span.End()

	if s.Cache != nil {
		if v, ok := s.Cache.Get(taskID); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &v, nil
		}
	}

	v, err := repo.GetGeneratedVideoStatus(ctx, s.DB, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get video: %v", ErrPersistence, err)
	}
	s.remember(*v)
	return v, nil
}

// Replay returns the record produced by an earlier request carrying the same
// (scope, key). It returns ErrNotFound when no live entry exists.
func (s *GenerationService) Replay(ctx context.Context, scope, key string) (*domain.GeneratedVideo, error) {
	idem, err := repo.GetIdempotency(ctx, s.DB, scope, key, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: idempotency lookup: %v", ErrPersistence, err)
	}
	return s.Status(ctx, idem.TaskID)
}

// prepare runs VALIDATING and TRANSFORMING and returns the thumbnail URI.
func (s *GenerationService) prepare(ctx context.Context, in *GenerateInput) (string, error) {
	_, span := otel.Tracer("services/GenerationService").Start(ctx, "transform")
	defer span.End()

	in.Prompt = strings.TrimSpace(in.Prompt)
	if in.Prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	if len(in.Data) == 0 {
		return "", fmt.Errorf("%w: image is required", ErrValidation)
	}
	if !s.Transformer.Allows(in.ContentType) {
		return "", fmt.Errorf("%w: %s", ErrValidation, msgUnsupportedImage)
	}

	thumb, err := s.Transformer.Thumbnail(in.Data, in.ContentType)
	switch {
	case err == nil:
		span.SetAttributes(attribute.Int("thumbnail.len", len(thumb)))
		return thumb, nil
	case errors.Is(err, media.ErrPayloadTooLarge):
		return "", fmt.Errorf("%w: %s", ErrPayloadTooLarge, msgTooLarge)
	case errors.Is(err, media.ErrUnsupportedMediaType):
		return "", fmt.Errorf("%w: %s", ErrValidation, msgUnsupportedImage)
	case errors.Is(err, media.ErrDecode):
		return "", fmt.Errorf("%w: image could not be decoded", ErrValidation)
	default:
		return "", fmt.Errorf("%w: transform: %v", ErrInternal, err)
	}
}

// await polls taskID until it leaves PENDING or the attempt budget runs out,
// waiting PollInterval before each attempt.
func (s *GenerationService) await(ctx context.Context, taskID string) (string, error) {
	lg := zerolog.Ctx(ctx)
	interval := s.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 60
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			genPolls.Observe(float64(attempt - 1))
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: %s", ErrTimeout, msgTimedOut)
			}
			return "", fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
		case <-timer.C:
		}

		task, err := s.Provider.Poll(ctx, taskID)
		if err != nil {
			genPolls.Observe(float64(attempt))
			return "", fmt.Errorf("%w: poll: %v", ErrProvider, err)
		}
		lg.Debug().Str("task_id", taskID).Int("attempt", attempt).Str("status", string(task.Status)).Msg("generation job polled")

		switch task.Status {
		case provider.StatusSucceeded:
			genPolls.Observe(float64(attempt))
			return task.OutputURL, nil
		case provider.StatusFailed:
			genPolls.Observe(float64(attempt))
			return "", fmt.Errorf("%w: Task failed: %s", ErrGenerationFailed, task.Failure)
		}
		timer.Reset(interval)
	}

	genPolls.Observe(float64(maxAttempts))
	return "", fmt.Errorf("%w: %s", ErrTimeout, msgTimedOut)
}

// persist stores the record and then binds its idempotency key, if any. A
// key already bound by another run is left alone: the succeeded job is kept
// either way.
func (s *GenerationService) persist(ctx context.Context, rec *domain.GeneratedVideo, in GenerateInput) error {
	if err := repo.CreateGeneratedVideo(ctx, s.DB, rec); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return fmt.Errorf("%w: task %s already stored", ErrConflict, rec.TaskID)
		}
		return fmt.Errorf("%w: store video: %v", ErrPersistence, err)
	}
	s.remember(*rec)

	if in.IdempotencyScope == "" || in.IdempotencyKey == "" {
		return nil
	}
	ttl := s.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if _, err := repo.CreateIdempotency(ctx, s.DB, in.IdempotencyScope, in.IdempotencyKey, rec.TaskID, 200, ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("task_id", rec.TaskID).
			Str("idempotency_key", in.IdempotencyKey).
			Msg("idempotency key not bound")
	}
	return nil
}

// remember caches the status view of v. Image payloads are dropped so an
// entry costs a few hundred bytes whatever was uploaded.
func (s *GenerationService) remember(v domain.GeneratedVideo) {
	if s.Cache == nil {
		return
	}
	v.OriginalImage = nil
	v.Base64Image = ""
	s.Cache.Add(v.TaskID, v)
}

// archive copies the original upload to UploadDir. The database row is the
// source of truth, so failures are only logged.
func (s *GenerationService) archive(ctx context.Context, taskID string, in GenerateInput) {
	if s.UploadDir == "" {
		return
	}
	name := filepath.Base(in.Filename)
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	path := filepath.Join(s.UploadDir, taskID+"_"+name)

	err := os.MkdirAll(s.UploadDir, 0o755)
	if err == nil {
		err = os.WriteFile(path, in.Data, 0o644)
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("task_id", taskID).Msg("archive original upload")
	}
}

// outcomeOf maps a workflow error to its metrics label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "succeeded"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrPayloadTooLarge):
		return "too_large"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrProvider):
		return "provider_error"
	case errors.Is(err, ErrGenerationFailed):
		return "failed"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrCanceled):
		return "canceled"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	default:
		return "internal_error"
	}
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
