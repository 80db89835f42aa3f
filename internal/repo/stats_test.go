package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akashparashar014/Video-Genration/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestAudioStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	if _, _, err := AudioStats(context.Background(), db); err == nil {
		t.Fatalf("expected error due to missing audio_files table")
	}
}

func TestAudioStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.AudioFile{})
	count, latest, err := AudioStats(context.Background(), db)
	if err != nil {
		t.Fatalf("AudioStats error: %v", err)
	}
	if count != 0 || latest != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, latest)
	}
}

func TestAudioStats_CountAndLatest(t *testing.T) {
	db := newTestDB(t, &domain.AudioFile{})

	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) // newest
	t3 := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	for i, at := range []time.Time{t1, t2, t3} {
		row := &domain.AudioFile{
			Filename:  fmt.Sprintf("a%d.mp3", i),
			SizeKB:    1,
			AudioData: []byte{1},
			CreatedAt: at,
		}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	count, latest, err := AudioStats(context.Background(), db)
	if err != nil {
		t.Fatalf("AudioStats error: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d; want 3", count)
	}
	if latest == nil || !latest.Equal(t2) {
		t.Fatalf("latest = %v; want %v", latest, t2)
	}
}
