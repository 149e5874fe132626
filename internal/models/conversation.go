package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is one-to-one with a circle and holds its pinned messages.
// It is created in the same transaction as the circle.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CircleID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time

	Pins []PinnedMessage `gorm:"foreignKey:ConversationID"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// PinnedMessage rows keep pin order via the auto-increment id.
type PinnedMessage struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_convo_message"`
	MessageID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_convo_message"`
	PinnedAt       time.Time
}
