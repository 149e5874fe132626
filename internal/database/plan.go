package database

import (
	"github.com/createex/circle/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrCreateEventType reuses an existing name+color pair before creating
// a new one, then attaches it to the circle.
func (d *Database) GetOrCreateEventType(circleID uuid.UUID, name, color string) (*models.EventType, error) {
	var eventType models.EventType

	err := d.db.Transaction(func(tx *gorm.DB) error {
		var circle models.Circle
		if err := tx.First(&circle, "id = ?", circleID).Error; err != nil {
			return err
		}

		err := tx.Where("name = ? AND color = ?", name, color).First(&eventType).Error
		if err == gorm.ErrRecordNotFound {
			eventType = models.EventType{Name: name, Color: color}
			if err := tx.Create(&eventType).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		return tx.Model(&circle).Association("EventTypes").Append(&eventType)
	})
	if err != nil {
		return nil, err
	}

	return &eventType, nil
}

func (d *Database) CircleEventTypes(circleID uuid.UUID) ([]models.EventType, error) {
	var circle models.Circle
	if err := d.db.Preload("EventTypes").First(&circle, "id = ?", circleID).Error; err != nil {
		return nil, err
	}
	return circle.EventTypes, nil
}

// CircleHasEventType reports whether the event type is attached to the circle.
func (d *Database) CircleHasEventType(circleID, eventTypeID uuid.UUID) (bool, error) {
	var count int64
	err := d.db.Table("circle_event_types").
		Where("circle_id = ? AND event_type_id = ?", circleID, eventTypeID).
		Count(&count).Error
	return count > 0, err
}

func (d *Database) CreatePlan(plan *models.Plan) error {
	return d.db.Create(plan).Error
}

func (d *Database) GetCirclePlans(circleID uuid.UUID) ([]models.Plan, error) {
	var plans []models.Plan
	err := d.db.Where("circle_id = ?", circleID).
		Order("date ASC").
		Preload("EventType").
		Find(&plans).Error
	return plans, err
}
