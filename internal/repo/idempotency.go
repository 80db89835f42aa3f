// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file stores Idempotency-Key entries: which generation
// task answered a (route, key) pair, and until when that answer is replayed.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akashparashar014/Video-Genration/internal/domain"
)

// GetIdempotency returns the entry for (scope, key) if it is still live at
// now, else ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	q := db.WithContext(ctx).
		Where(map[string]any{"scope": scope, "key": key}).
		Where("expires_at > ?", now)
	if err := q.Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency binds (scope, key) to taskID for ttl. An expired entry
// for the same pair is dropped first so keys can be reused after expiry; a
// live one makes the insert fail with ErrDuplicate. Pass a transaction to
// make the binding atomic with the record it points at.
func CreateIdempotency(ctx context.Context, db *gorm.DB, scope, key, taskID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	tx := db.WithContext(ctx)

	if err := tx.
		Where(map[string]any{"scope": scope, "key": key}).
		Where("expires_at <= ?", now).
		Delete(&domain.Idempotency{}).Error; err != nil {
		return nil, err
	}

	rec := &domain.Idempotency{
		ID:        uuid.NewString(),
		Scope:     scope,
		Key:       key,
		TaskID:    taskID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := tx.Create(rec).Error; err != nil {
		return nil, translate(err)
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes every entry that expired at or before now
// and reports how many rows went.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}
