package database

import (
	"time"

	"github.com/createex/circle/internal/models"
	"github.com/google/uuid"
)

func (d *Database) CreateStory(story *models.Story) error {
	return d.db.Create(story).Error
}

// ActiveStories returns the circle's unexpired stories, newest first.
func (d *Database) ActiveStories(circleID uuid.UUID) ([]models.Story, error) {
	var stories []models.Story
	err := d.db.Where("circle_id = ? AND expires_at > ?", circleID, time.Now()).
		Order("created_at DESC").
		Preload("CreatedBy").
		Find(&stories).Error
	return stories, err
}

// DeleteExpiredStories reaps rows past their TTL. Run periodically; reads
// filter on expires_at anyway, so the reaper only reclaims space.
func (d *Database) DeleteExpiredStories() (int64, error) {
	res := d.db.Where("expires_at <= ?", time.Now()).Delete(&models.Story{})
	return res.RowsAffected, res.Error
}
