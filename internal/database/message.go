package database

import (
	"time"

	"github.com/createex/circle/internal/models"
	"github.com/google/uuid"
)

// AppendMessage assigns the creation timestamp at the store boundary, so
// per-circle order is decided by the insert and nothing else.
func (d *Database) AppendMessage(message *models.Message) error {
	message.CreatedAt = time.Now()
	return d.db.Create(message).Error
}

func (d *Database) GetMessage(id string) (*models.Message, error) {
	var message models.Message
	err := d.db.Preload("Sender").Preload("Media").First(&message, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// PageMessages returns one page of circle history, newest first. Page numbers
// are 1-based; pages past the end yield an empty slice and the true total.
func (d *Database) PageMessages(circleID uuid.UUID, page, limit int) ([]models.Message, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := d.db.Model(&models.Message{}).Where("circle_id = ?", circleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := d.db.Where("circle_id = ?", circleID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Sender").
		Preload("Media").
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// LatestMessage returns the newest message of a circle, or nil when the
// circle has no history yet.
func (d *Database) LatestMessage(circleID uuid.UUID) (*models.Message, error) {
	var messages []models.Message
	err := d.db.Where("circle_id = ?", circleID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[0], nil
}
