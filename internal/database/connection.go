package database

import (
	"errors"

	"github.com/createex/circle/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func (d *Database) Connect(dsn string) error {
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return err
	}

	d.db = db

	return nil
}

// Migrate is shared with tests, which run against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Circle{},
		&models.Invite{},
		&models.Conversation{},
		&models.PinnedMessage{},
		&models.Message{},
		&models.MessageMedia{},
		&models.Todo{},
		&models.TodoImage{},
		&models.Bill{},
		&models.EventType{},
		&models.Plan{},
		&models.Story{},
		&models.Itinerary{},
	)
}
