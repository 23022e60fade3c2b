package models

import "time"

// RefreshToken stores the SHA-256 hash of an issued refresh token. Raw
// tokens are never persisted.
type RefreshToken struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	TokenHash   string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt   *time.Time `json:"revoked_at"`
	CreatedByIP string     `gorm:"size:64" json:"-"`
	UserAgent   string     `gorm:"size:500" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// Valid reports whether the token is usable right now.
func (t *RefreshToken) Valid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
