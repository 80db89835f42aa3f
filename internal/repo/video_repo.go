package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/akashparashar014/Video-Genration/internal/domain"
)

// CreateGeneratedVideo persists a completed generation record.
// Returns ErrDuplicate if the task id was already stored.
func CreateGeneratedVideo(ctx context.Context, db *gorm.DB, v *domain.GeneratedVideo) error {
	return translate(db.WithContext(ctx).Create(v).Error)
}

// GetGeneratedVideoStatus loads what a status lookup returns for taskID.
// Image columns are not selected. Returns ErrNotFound if absent.
func GetGeneratedVideoStatus(ctx context.Context, db *gorm.DB, taskID string) (*domain.GeneratedVideo, error) {
	var v domain.GeneratedVideo
	err := db.WithContext(ctx).
		Select("id", "task_id", "prompt", "video_url", "created_at").
		Where("task_id = ?", taskID).
		Take(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}
