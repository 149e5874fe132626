package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventType is shared between circles: identical name+color pairs are reused.
type EventType struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"not null;uniqueIndex:idx_event_type"`
	Color string    `gorm:"not null;uniqueIndex:idx_event_type"`
}

func (e *EventType) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type Plan struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CircleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Description string
	Date        time.Time `gorm:"not null"`
	Location    string    `gorm:"not null"`
	EventTypeID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time

	EventType EventType `gorm:"foreignKey:EventTypeID"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
