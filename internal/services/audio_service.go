// Package services – AudioService
//
// This file implements audio upload, playback lookup, and listing. Audio rows
// are immutable: an upload either creates a new row or fails.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/akashparashar014/Video-Genration/internal/domain"
	"github.com/akashparashar014/Video-Genration/internal/repo"
)

// AudioRepo defines the repository contract required by AudioService.
type AudioRepo interface {
	CreateAudio(ctx context.Context, db *gorm.DB, filename string, sizeKB float64, data []byte) (*domain.AudioFile, error)
	GetAudioByFilename(ctx context.Context, db *gorm.DB, filename string) (*domain.AudioFile, error)
	ListAudio(ctx context.Context, db *gorm.DB) ([]domain.AudioFile, error)
	AudioStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error)
}

// AudioService stores and serves audio clips.
type AudioService struct {
	DB   *gorm.DB
	Repo AudioRepo
	// Extension is the required filename suffix, lowercase with a leading dot.
	Extension string
}

// NewAudioService constructs an AudioService accepting ext uploads.
func NewAudioService(db *gorm.DB, r AudioRepo, ext string) *AudioService {
	if ext == "" {
		ext = ".mp3"
	}
	return &AudioService{DB: db, Repo: r, Extension: strings.ToLower(ext)}
}

// SizeKB converts a byte length into kilobytes rounded to two decimals.
func SizeKB(n int) float64 {
	return math.Round(float64(n)/1024*100) / 100
}

// Upload stores data under filename.
//
// Errors:
//   - ErrValidation for a missing name, wrong extension, or empty payload.
//   - ErrConflict when filename is already stored.
//   - ErrPersistence for any other storage failure.
func (s *AudioService) Upload(ctx context.Context, filename string, data []byte) (*domain.AudioFile, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}
	if !strings.EqualFold(filepath.Ext(filename), s.Extension) {
		return nil, fmt.Errorf("%w: Only %s files are allowed.", ErrValidation, strings.ToUpper(strings.TrimPrefix(s.Extension, ".")))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrValidation)
	}

	a, err := s.Repo.CreateAudio(ctx, s.DB, filename, SizeKB(len(data)), data)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: audio file %s already exists", ErrConflict, filename)
		}
		return nil, fmt.Errorf("%w: create audio: %v", ErrPersistence, err)
	}
	return a, nil
}

// Get returns the stored file including its payload, or ErrNotFound.
func (s *AudioService) Get(ctx context.Context, filename string) (*domain.AudioFile, error) {
	a, err := s.Repo.GetAudioByFilename(ctx, s.DB, filename)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get audio: %v", ErrPersistence, err)
	}
	return a, nil
}

// List returns metadata for every stored file, ordered by id.
func (s *AudioService) List(ctx context.Context) ([]domain.AudioFile, error) {
	items, err := s.Repo.ListAudio(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: list audio: %v", ErrPersistence, err)
	}
	return items, nil
}

// Stats returns the row count and newest upload time, for ETags.
func (s *AudioService) Stats(ctx context.Context) (int64, *time.Time, error) {
	n, latest, err := s.Repo.AudioStats(ctx, s.DB)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: audio stats: %v", ErrPersistence, err)
	}
	return n, latest, nil
}
