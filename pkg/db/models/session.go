package models

import "time"

// Session binds an opaque bearer token to a user until it expires or is revoked.
type Session struct {
	Token     string    `gorm:"column:token;primaryKey"`
	UserID    uint64    `gorm:"column:user_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
