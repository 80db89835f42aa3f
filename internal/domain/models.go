// Package domain defines the persistence models for users, audio files, and
// generated videos. These types are mapped with GORM and form the core data
// layer of the video generation backend.
package domain

import (
	"time"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// User is a registered account. Username and email are unique; the password
// credential is stored only as a bcrypt hash and never serialized.
//
// Fields:
//   - ID: auto-increment primary key.
//   - Username: login name as typed.
//   - UsernameKey: case-folded Username; carries the uniqueness constraint.
//   - Email: unique, case-folded address.
//   - PasswordHash: bcrypt hash of the submitted credential.
//   - CreatedAt: timestamp managed by GORM.
type User struct {
	ID           uint      `json:"id"       gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;not null"`
	UsernameKey  string    `json:"-" gorm:"size:150;not null;uniqueIndex:ux_users_username"`
	Email        string    `json:"email"    gorm:"size:255;not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// BeforeSave derives UsernameKey, so "Alice" and "alice" collide on insert.
func (u *User) BeforeSave(*gorm.DB) error {
	u.UsernameKey = cases.Fold().String(u.Username)
	return nil
}

// AudioFile is an uploaded audio clip. The payload is immutable once stored.
//
// Fields:
//   - ID: auto-increment primary key; list order follows it.
//   - Filename: unique client-supplied name, used as the playback key.
//   - SizeKB: payload length in kilobytes rounded to two decimals.
//   - AudioData: raw bytes; excluded from JSON.
type AudioFile struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	Filename  string    `json:"filename"  gorm:"size:255;not null;uniqueIndex:ux_audio_filename"`
	SizeKB    float64   `json:"size_kb"   gorm:"not null"`
	AudioData []byte    `json:"-"         gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for AudioFile.
func (AudioFile) TableName() string { return "audio_files" }

// GeneratedVideo records a completed image-to-video job. It is written once,
// when the job succeeds (or immediately for the dummy provider), and never
// updated afterwards.
//
// Fields:
//   - TaskID: provider-assigned or locally generated job id; unique.
//   - Prompt: text prompt supplied with the image.
//   - OriginalImage: the uploaded image bytes, verbatim.
//   - Base64Image: the derived thumbnail as a data URI.
//   - VideoURL: location of the generated media.
type GeneratedVideo struct {
	ID            uint      `json:"id"           gorm:"primaryKey"`
	TaskID        string    `json:"task_id"      gorm:"size:128;not null;uniqueIndex:ux_generated_videos_task"`
	Prompt        string    `json:"prompt"       gorm:"type:text;not null"`
	OriginalImage []byte    `json:"-"`
	Base64Image   string    `json:"-"            gorm:"type:text"`
	VideoURL      string    `json:"video_url"    gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName returns the database table name for GeneratedVideo.
func (GeneratedVideo) TableName() string { return "generated_videos" }
