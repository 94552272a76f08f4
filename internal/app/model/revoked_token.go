package model

import (
	"time"
)

// RevokedToken is a session token invalidated by logout. ExpiresAt is the
// token's own expiry; rows past it can be pruned because verification
// rejects expired tokens regardless of revocation.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"size:512;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
