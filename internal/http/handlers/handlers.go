// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they parse form, multipart and JSON input,
// call application services, and translate results into HTTP responses
// (including conditional responses and the error envelope).
package handlers

import (
	"context"
	"time"

	"github.com/akashparashar014/Video-Genration/internal/domain"
	"github.com/akashparashar014/Video-Genration/internal/services"
)

//
// Service contracts (context-aware)
//

// UserService defines user registration operations consumed by HTTP handlers.
type UserService interface {
	// Register validates and stores a new user.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// List returns every user ordered by id.
	List(ctx context.Context) ([]domain.User, error)
}

// AudioService defines audio storage operations consumed by HTTP handlers.
type AudioService interface {
	// Upload stores an audio clip under filename.
	Upload(ctx context.Context, filename string, data []byte) (*domain.AudioFile, error)
	// Get returns a stored clip including its payload.
	Get(ctx context.Context, filename string) (*domain.AudioFile, error)
	// List returns metadata for every stored clip.
	List(ctx context.Context) ([]domain.AudioFile, error)
	// Stats returns the clip count and newest upload time (for ETags).
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// GenerationService defines the image-to-video workflow consumed by HTTP
// handlers.
//
// Implementations must honor the provided context: Generate may block for the
// whole poll budget.
type GenerationService interface {
	// Generate runs the provider-backed workflow.
	Generate(ctx context.Context, in services.GenerateInput) (*domain.GeneratedVideo, error)
	// GenerateDummy runs the workflow without contacting the provider.
	GenerateDummy(ctx context.Context, in services.GenerateInput) (*domain.GeneratedVideo, error)
	// Status looks up a stored record by task id.
	Status(ctx context.Context, taskID string) (*domain.GeneratedVideo, error)
	// Replay returns the record stored for an Idempotency-Key.
	Replay(ctx context.Context, scope, key string) (*domain.GeneratedVideo, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for users, audio, and video generation.
type Handlers struct {
	users  UserService
	audio  AudioService
	videos GenerationService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(users UserService, audio AudioService, videos GenerationService) *Handlers {
	return &Handlers{users: users, audio: audio, videos: videos}
}
