package domain

import "time"

// Idempotency remembers which generation job answered a request carrying a
// given Idempotency-Key, keyed by (scope, key) where scope is the route.
// A retried request with the same key replays the stored job instead of
// submitting a new one.
type Idempotency struct {
	ID        string    `gorm:"size:36;primaryKey"`
	Scope     string    `gorm:"size:255;not null;uniqueIndex:ux_idem_scope_key,priority:1"`
	Key       string    `gorm:"size:255;not null;uniqueIndex:ux_idem_scope_key,priority:2"`
	TaskID    string    `gorm:"size:128;not null"`
	Status    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
