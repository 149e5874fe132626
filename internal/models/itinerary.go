package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Itinerary is a personal schedule entry, not scoped to any circle.
type Itinerary struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name   string    `gorm:"not null"`
	About  string
	Date   time.Time `gorm:"not null;index"`
	// Time is the display time of day, e.g. "14:30".
	Time      string `gorm:"not null"`
	CreatedAt time.Time
}

func (i *Itinerary) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
