package database

import (
	"errors"
	"time"

	"github.com/createex/circle/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAlreadyPinned = errors.New("message already pinned")

func (d *Database) GetConversation(circleID uuid.UUID) (*models.Conversation, error) {
	var convo models.Conversation
	if err := d.db.First(&convo, "circle_id = ?", circleID).Error; err != nil {
		return nil, err
	}
	return &convo, nil
}

// PinMessage appends the message to the circle's pinned set. The message must
// belong to the circle; pinning twice returns ErrAlreadyPinned.
func (d *Database) PinMessage(circleID, messageID uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var message models.Message
		if err := tx.First(&message, "id = ? AND circle_id = ?", messageID, circleID).Error; err != nil {
			return err
		}

		var convo models.Conversation
		if err := tx.First(&convo, "circle_id = ?", circleID).Error; err != nil {
			return err
		}

		var count int64
		err := tx.Model(&models.PinnedMessage{}).
			Where("conversation_id = ? AND message_id = ?", convo.ID, messageID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyPinned
		}

		pin := models.PinnedMessage{
			ConversationID: convo.ID,
			MessageID:      messageID,
			PinnedAt:       time.Now(),
		}
		return tx.Create(&pin).Error
	})
}

// PinnedMessages returns the circle's pinned messages in pin order,
// most recently pinned last.
func (d *Database) PinnedMessages(circleID uuid.UUID) ([]models.Message, error) {
	convo, err := d.GetConversation(circleID)
	if err != nil {
		return nil, err
	}

	var pins []models.PinnedMessage
	err = d.db.Where("conversation_id = ?", convo.ID).
		Order("id ASC").
		Find(&pins).Error
	if err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(pins))
	for _, pin := range pins {
		message, err := d.GetMessage(pin.MessageID.String())
		if err != nil {
			return nil, err
		}
		messages = append(messages, *message)
	}

	return messages, nil
}
