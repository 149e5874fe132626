package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MessageTypeText = "text"
	MessageTypePlan = "plan"
)

// Message is immutable after creation; pin state lives in Conversation.
type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CircleID uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID uuid.UUID `gorm:"type:uuid;not null"`
	Body     string
	Type     string     `gorm:"default:'text'"`
	PlanID   *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"index"`

	Sender User           `gorm:"foreignKey:SenderID"`
	Media  []MessageMedia `gorm:"foreignKey:MessageID"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type MessageMedia struct {
	ID        uint      `gorm:"primaryKey"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"not null"`
	URL       string    `gorm:"not null"`
	Mimetype  string    `gorm:"not null"`
}
