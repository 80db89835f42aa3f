// Package services – UserService
//
// This file implements user registration and listing. Usernames are stored
// as typed and compared case-insensitively (see domain.User.UsernameKey);
// emails are case-folded before storage. The password is stored only as a
// bcrypt hash.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/akashparashar014/Video-Genration/internal/domain"
	"github.com/akashparashar014/Video-Genration/internal/repo"
)

// UserRepo defines the repository contract required by UserService.
type UserRepo interface {
	CreateUser(ctx context.Context, db *gorm.DB, username, email, passwordHash string) (*domain.User, error)
	ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error)
}

// UserService registers and lists users.
type UserService struct {
	DB   *gorm.DB
	Repo UserRepo

	// BcryptCost is the hashing cost; values outside bcrypt's range fall
	// back to bcrypt.DefaultCost.
	BcryptCost int
	// MaxUsernameLen caps usernames by byte length.
	MaxUsernameLen int
}

// NewUserService constructs a UserService with default limits.
func NewUserService(db *gorm.DB, r UserRepo) *UserService {
	return &UserService{
		DB:             db,
		Repo:           r,
		BcryptCost:     bcrypt.DefaultCost,
		MaxUsernameLen: 150,
	}
}

// Register validates and stores a new user.
//
// Errors:
//   - ErrValidation for a blank username or password, or a malformed email.
//   - ErrConflict when the username or email is already registered.
//   - ErrPersistence for any other storage failure.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	// A Caser keeps state, so each call gets its own.
	email = cases.Fold().String(strings.TrimSpace(email))

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if s.MaxUsernameLen > 0 && len(username) > s.MaxUsernameLen {
		return nil, fmt.Errorf("%w: username is too long", ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	cost := s.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		// bcrypt rejects passwords over 72 bytes.
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	u, err := s.Repo.CreateUser(ctx, s.DB, username, email, string(hash))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrPersistence, err)
	}
	return u, nil
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.Repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", ErrPersistence, err)
	}
	return users, nil
}
