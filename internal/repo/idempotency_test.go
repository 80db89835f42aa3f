package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akashparashar014/Video-Genration/internal/domain"
)

const (
	scopeV1 = "/api/v1/generate-video/"
	scopeV2 = "/api/v2/generate-video-1/"
)

func TestGetIdempotency_NotFoundCases(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	if err := db.Create(&domain.Idempotency{
		ID: "expired", Scope: scopeV1, Key: "old", TaskID: "task-1", Status: 200,
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, scopeV1, "live", "task-2", 200, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}

	cases := []struct {
		name, scope, key string
	}{
		{"blank key", scopeV1, "   "},
		{"expired", scopeV1, "old"},
		{"missing", scopeV1, "nope"},
		{"other scope", scopeV2, "live"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := GetIdempotency(ctx, db, tc.scope, tc.key, now)
			if rec != nil || !errors.Is(err, ErrNotFound) {
				t.Fatalf("got (%v, %v); want ErrNotFound", rec, err)
			}
		})
	}
}

func TestGetIdempotency_DBErrorPassesThrough(t *testing.T) {
	db := newTestDB(t)
	_, err := GetIdempotency(context.Background(), db, scopeV1, "k1", time.Now())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected raw DB error, got %v", err)
	}
}

func TestCreateIdempotency_LifecycleAndScopes(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, scopeV1, "k1", "task-9", 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.ExpiresAt.Sub(rec.CreatedAt) != time.Hour {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, scopeV1, "k1", time.Now().UTC())
	if err != nil || got.TaskID != "task-9" || got.Status != 200 {
		t.Fatalf("readback = %+v, %v", got, err)
	}

	if _, err := CreateIdempotency(ctx, db, scopeV2, "k1", "task-10", 200, time.Hour); err != nil {
		t.Fatalf("same key on another route must not collide: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, scopeV1, "k1", "task-11", 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("live key: expected ErrDuplicate, got %v", err)
	}
}

func TestCreateIdempotency_ReusesExpiredKey(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	if err := db.Create(&domain.Idempotency{
		ID: "stale", Scope: scopeV1, Key: "k1", TaskID: "task-old", Status: 200,
		CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-24 * time.Hour),
	}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := CreateIdempotency(ctx, db, scopeV1, "k1", "task-new", 200, time.Hour); err != nil {
		t.Fatalf("expired key should be reusable: %v", err)
	}
	got, err := GetIdempotency(ctx, db, scopeV1, "k1", time.Now().UTC())
	if err != nil || got.TaskID != "task-new" {
		t.Fatalf("readback = %+v, %v", got, err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	for i, exp := range []time.Duration{-time.Hour, -time.Minute, time.Hour} {
		if err := db.Create(&domain.Idempotency{
			ID: string(rune('a' + i)), Scope: scopeV1, Key: string(rune('a' + i)), TaskID: "t", Status: 200,
			CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(exp),
		}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := PurgeExpiredIdempotency(ctx, db, now)
	if err != nil || n != 2 {
		t.Fatalf("purged %d, %v; want 2", n, err)
	}
	var left int64
	if err := db.Model(&domain.Idempotency{}).Count(&left).Error; err != nil || left != 1 {
		t.Fatalf("left = %d, %v; want 1", left, err)
	}
}
