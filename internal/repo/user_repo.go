// Package repo implements the data persistence layer for domain entities,
// backed by GORM.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - Missing rows surface as ErrNotFound (gorm.ErrRecordNotFound).
//   - Unique index collisions surface as ErrDuplicate.
//   - Any other DB error is propagated unchanged.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/akashparashar014/Video-Genration/internal/domain"
)

// CreateUser inserts a user row. The caller supplies an already hashed
// credential. Returns ErrDuplicate when username or email is taken.
func CreateUser(ctx context.Context, db *gorm.DB, username, email, passwordHash string) (*domain.User, error) {
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// ListUsers returns all users ordered by id.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Order("id asc").
		Find(&out).Error
	return out, err
}
