package database

import (
	"time"

	"github.com/createex/circle/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCircle writes the circle, its conversation record and any phone-number
// invites in one transaction. The owner is always part of the member set.
func (d *Database) CreateCircle(circle *models.Circle, phoneNumbers []string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		hasOwner := false
		for _, m := range circle.Members {
			if m.ID == circle.OwnerID {
				hasOwner = true
				break
			}
		}
		if !hasOwner {
			circle.Members = append(circle.Members, models.User{ID: circle.OwnerID})
		}

		if err := tx.Create(circle).Error; err != nil {
			return err
		}

		convo := models.Conversation{CircleID: circle.ID, CreatedAt: time.Now()}
		if err := tx.Create(&convo).Error; err != nil {
			return err
		}

		for _, phone := range phoneNumbers {
			var user models.User
			err := tx.Where("phone_number = ?", phone).First(&user).Error
			if err == gorm.ErrRecordNotFound {
				// Placeholder account completed when the invitee registers.
				user = models.User{PhoneNumber: phone}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			if err := tx.Model(circle).Association("Members").Append(&user); err != nil {
				return err
			}

			invite := models.Invite{
				PhoneNumber: phone,
				InvitedByID: circle.OwnerID,
				CircleID:    circle.ID,
				SentAt:      time.Now(),
			}
			if err := tx.Create(&invite).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (d *Database) GetCircle(id string) (*models.Circle, error) {
	var circle models.Circle
	if err := d.db.Preload("Members").First(&circle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &circle, nil
}

// IsMember answers the membership-directory query used to gate room joins
// and message sends. Looked up fresh on every call, never cached.
func (d *Database) IsMember(userID, circleID uuid.UUID) (bool, error) {
	var count int64
	err := d.db.Table("circle_members").
		Where("circle_id = ? AND user_id = ?", circleID, userID).
		Count(&count).Error
	return count > 0, err
}

// CirclesFor returns every circle id the user belongs to.
func (d *Database) CirclesFor(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.Table("circle_members").
		Where("user_id = ?", userID).
		Pluck("circle_id", &ids).Error
	return ids, err
}

func (d *Database) OwnerOf(circleID uuid.UUID) (uuid.UUID, error) {
	var circle models.Circle
	if err := d.db.Select("id", "owner_id").First(&circle, "id = ?", circleID).Error; err != nil {
		return uuid.Nil, err
	}
	return circle.OwnerID, nil
}

func (d *Database) GetUserCircles(userID uuid.UUID) ([]models.Circle, error) {
	var circles []models.Circle
	err := d.db.
		Joins("JOIN circle_members cm ON cm.circle_id = circles.id").
		Where("cm.user_id = ?", userID).
		Order("circles.created_at DESC").
		Find(&circles).Error
	return circles, err
}

// AddMembers appends new members to the circle and is a no-op for users
// already in it.
func (d *Database) AddMembers(tx *gorm.DB, circle *models.Circle, memberIDs []uuid.UUID) error {
	for _, id := range memberIDs {
		if err := tx.Model(circle).Association("Members").Append(&models.User{ID: id}); err != nil {
			return err
		}
	}
	return nil
}
