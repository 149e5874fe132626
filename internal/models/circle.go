package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Circle struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Image       string
	Description string
	Type        string `gorm:"check:type IN ('friend','family','organization','mix')"`
	Interest    string
	OwnerID     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time

	Members    []User      `gorm:"many2many:circle_members"`
	EventTypes []EventType `gorm:"many2many:circle_event_types"`
}

func (c *Circle) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Invite tracks a pending SMS invitation for someone who is not registered yet.
type Invite struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PhoneNumber string    `gorm:"not null"`
	InvitedByID uuid.UUID `gorm:"type:uuid;not null"`
	CircleID    uuid.UUID `gorm:"type:uuid;not null"`
	Accepted    bool      `gorm:"default:false"`
	SentAt      time.Time
}

func (i *Invite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
