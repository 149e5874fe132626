package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const StoryTTL = 24 * time.Hour

// Story is ephemeral: readers filter on ExpiresAt and a background reaper
// deletes expired rows.
type Story struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CircleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
	Text        string
	MediaURL    string    `gorm:"not null"`
	MediaType   string    `gorm:"not null;check:media_type IN ('image','video')"`
	ExpiresAt   time.Time `gorm:"index"`
	CreatedAt   time.Time

	CreatedBy User `gorm:"foreignKey:CreatedByID"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = time.Now().Add(StoryTTL)
	}
	return nil
}
