package model

import (
	"time"

	"gorm.io/gorm"
)

// User is an account identity. Email is stored lowercase; the unique
// index is what serializes concurrent registrations of the same address.
// ResetToken and ResetRequestedAt are set together while a password
// reset is pending and cleared together when it is consumed.
type User struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Email            string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string         `gorm:"not null" json:"-"`
	ResetToken       *string        `gorm:"uniqueIndex" json:"-"`
	ResetRequestedAt *time.Time     `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"-"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
