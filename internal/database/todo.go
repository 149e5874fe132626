package database

import (
	"github.com/createex/circle/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTodo writes the todo (with images and bill) and adds any new circle
// members in the same transaction.
func (d *Database) CreateTodo(todo *models.Todo, newMemberIDs []uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var circle models.Circle
		if err := tx.First(&circle, "id = ?", todo.CircleID).Error; err != nil {
			return err
		}

		if len(newMemberIDs) > 0 {
			if err := d.AddMembers(tx, &circle, newMemberIDs); err != nil {
				return err
			}
		}

		return tx.Create(todo).Error
	})
}

func (d *Database) GetTodo(id string) (*models.Todo, error) {
	var todo models.Todo
	err := d.db.
		Preload("Images").
		Preload("Bill").
		Preload("Bill.Members").
		Preload("Bill.PaidBy").
		First(&todo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (d *Database) PageTodos(circleID uuid.UUID, page, limit int) ([]models.Todo, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := d.db.Model(&models.Todo{}).Where("circle_id = ?", circleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var todos []models.Todo
	err := d.db.Where("circle_id = ?", circleID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Bill").
		Preload("Bill.Members").
		Preload("Bill.PaidBy").
		Find(&todos).Error
	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// MarkBillPaid records that the member settled their share. Safe to call
// twice, the payment set is a set.
func (d *Database) MarkBillPaid(todoID string, memberID uuid.UUID) error {
	var todo models.Todo
	if err := d.db.Preload("Bill").Preload("Bill.PaidBy").First(&todo, "id = ?", todoID).Error; err != nil {
		return err
	}
	if todo.Bill == nil {
		return gorm.ErrRecordNotFound
	}

	for _, paid := range todo.Bill.PaidBy {
		if paid.ID == memberID {
			return nil
		}
	}

	return d.db.Model(todo.Bill).Association("PaidBy").Append(&models.User{ID: memberID})
}
