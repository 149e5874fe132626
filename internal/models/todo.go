package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Todo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CircleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	CreatedAt   time.Time

	Images []TodoImage `gorm:"foreignKey:TodoID"`
	Bill   *Bill       `gorm:"foreignKey:TodoID"`
}

func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type TodoImage struct {
	ID     uint      `gorm:"primaryKey"`
	TodoID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL    string    `gorm:"not null"`
	// Receipt marks bill receipt images as opposed to todo illustrations.
	Receipt bool `gorm:"default:false"`
}

// Bill splits a todo's cost equally between its members.
type Bill struct {
	ID     uint      `gorm:"primaryKey"`
	TodoID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Title  string
	Total  float64

	Members []User `gorm:"many2many:bill_members"`
	PaidBy  []User `gorm:"many2many:bill_payments"`
}
