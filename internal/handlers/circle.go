package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/createex/circle/internal/database"
	"github.com/createex/circle/internal/handlers/dto"
	"github.com/createex/circle/internal/middleware"
	"github.com/createex/circle/internal/models"
)

type CircleHandler struct {
	db  *database.Database
	sms SMSSender
}

func NewCircleHandler(db *database.Database, sms SMSSender) *CircleHandler {
	if sms == nil {
		sms = LogSMS
	}
	return &CircleHandler{db: db, sms: sms}
}

// CreateCircle creates a circle with its conversation record, adds the
// listed members, and invites the given phone numbers over SMS.
// POST /api/circle
func (h *CircleHandler) CreateCircle(c *gin.Context) {
	ownerID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateCircleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	members := make([]models.User, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id: " + raw})
			return
		}
		members = append(members, models.User{ID: id})
	}

	circle := &models.Circle{
		Name:        req.CircleName,
		Image:       req.CircleImage,
		Description: req.Description,
		Type:        req.Type,
		Interest:    req.Interest,
		OwnerID:     ownerID,
		Members:     members,
		CreatedAt:   time.Now(),
	}

	if err := h.db.CreateCircle(circle, req.PhoneNumbers); err != nil {
		log.Printf("Failed to create circle: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create circle"})
		return
	}

	owner, err := h.db.GetUser(ownerID.String())
	if err == nil {
		for _, phone := range req.PhoneNumbers {
			message := owner.PhoneNumber + " has invited you to join. Follow the link to register: https://app.com/register?phone=" + phone
			if err := h.sms(phone, message); err != nil {
				log.Printf("Failed to send invite SMS to %s: %v", phone, err)
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Circle created and invitations sent successfully",
		"circle":  gin.H{"id": circle.ID, "circleName": circle.Name},
	})
}

// GetMyCircles lists the circles the caller belongs to.
// GET /api/circle/mine
func (h *CircleHandler) GetMyCircles(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circles, err := h.db.GetUserCircles(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve circles"})
		return
	}

	result := make([]gin.H, len(circles))
	for i, circle := range circles {
		result[i] = gin.H{
			"id":          circle.ID,
			"circleName":  circle.Name,
			"circleImage": circle.Image,
			"description": circle.Description,
			"type":        circle.Type,
			"interest":    circle.Interest,
			"ownerId":     circle.OwnerID,
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "circles": result})
}
