package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/akashparashar014/Video-Genration/internal/domain"
)

// CreateAudio stores an audio payload under filename.
// Returns ErrDuplicate if the filename already exists.
func CreateAudio(ctx context.Context, db *gorm.DB, filename string, sizeKB float64, data []byte) (*domain.AudioFile, error) {
	a := &domain.AudioFile{
		Filename:  filename,
		SizeKB:    sizeKB,
		AudioData: data,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// GetAudioByFilename fetches a single audio row including its payload.
// Returns ErrNotFound when no row matches.
func GetAudioByFilename(ctx context.Context, db *gorm.DB, filename string) (*domain.AudioFile, error) {
	var a domain.AudioFile
	err := db.WithContext(ctx).
		Where("filename = ?", filename).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAudio returns audio metadata ordered by id. Payload bytes are not
// selected.
func ListAudio(ctx context.Context, db *gorm.DB) ([]domain.AudioFile, error) {
	var out []domain.AudioFile
	err := db.WithContext(ctx).
		Select("id", "filename", "size_kb", "created_at").
		Order("id asc").
		Find(&out).Error
	return out, err
}
