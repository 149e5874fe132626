package database

import (
	"time"

	"github.com/createex/circle/internal/models"
	"github.com/google/uuid"
)

func (d *Database) CreateItinerary(itinerary *models.Itinerary) error {
	return d.db.Create(itinerary).Error
}

// ItinerariesOn returns the user's itineraries falling on the given calendar
// day, earliest first.
func (d *Database) ItinerariesOn(userID uuid.UUID, day time.Time) ([]models.Itinerary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var itineraries []models.Itinerary
	err := d.db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC").
		Find(&itineraries).Error
	return itineraries, err
}
