package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	Email          string `gorm:"index"`
	PasswordHash   string
	PhoneNumber    string `gorm:"uniqueIndex;not null"`
	ProfilePicture string
	IsVerified     bool `gorm:"default:false"`

	// One-time verification code sent over SMS after signup.
	VerificationCode string
	CodeExpiresAt    time.Time

	LastSeenAt time.Time
	CreatedAt  time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
