package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/createex/circle/internal/database"
	"github.com/createex/circle/internal/middleware"
	"github.com/createex/circle/internal/models"
)

type PlanHandler struct {
	db *database.Database
}

func NewPlanHandler(db *database.Database) *PlanHandler {
	return &PlanHandler{db: db}
}

// CreatePlan creates a plan for a circle. Its event type must already be
// attached to the circle.
// POST /api/plan/:circleId
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	var req struct {
		Name        string    `json:"name" binding:"required"`
		Description string    `json:"description"`
		Date        time.Time `json:"date" binding:"required"`
		Location    string    `json:"location" binding:"required"`
		EventType   string    `json:"eventType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all required fields"})
		return
	}

	eventTypeID, err := uuid.Parse(req.EventType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event type id"})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	hasType, err := h.db.CircleHasEventType(circleID, eventTypeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create plan"})
		return
	}
	if !hasType {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event type does not exist in the circle"})
		return
	}

	plan := &models.Plan{
		CircleID:    circleID,
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		EventTypeID: eventTypeID,
		CreatedByID: userID,
		CreatedAt:   time.Now(),
	}
	if err := h.db.CreatePlan(plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create plan"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Plan created successfully", "planId": plan.ID})
}

// GetPlans lists the circle's plans with event types populated.
// GET /api/plan/:circleId
func (h *PlanHandler) GetPlans(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	plans, err := h.db.GetCirclePlans(circleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get plans"})
		return
	}

	result := make([]gin.H, len(plans))
	for i, plan := range plans {
		result[i] = gin.H{
			"id":          plan.ID,
			"name":        plan.Name,
			"description": plan.Description,
			"date":        plan.Date,
			"location":    plan.Location,
			"createdBy":   plan.CreatedByID,
			"eventType": gin.H{
				"id":    plan.EventType.ID,
				"name":  plan.EventType.Name,
				"color": plan.EventType.Color,
			},
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "plans": result})
}

// GetEventTypes lists the event types attached to a circle.
// GET /api/plan/:circleId/event-types
func (h *PlanHandler) GetEventTypes(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	eventTypes, err := h.db.CircleEventTypes(circleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "circle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get event types"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "eventTypes": eventTypes})
}

// CreateEventType attaches an event type to the circle, reusing an existing
// name+color pair when one exists.
// POST /api/plan/:circleId/event-types
func (h *PlanHandler) CreateEventType(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	var req struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all required fields"})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	eventType, err := h.db.GetOrCreateEventType(circleID, req.Name, req.Color)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "circle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event type"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Event type created successfully", "eventType": eventType})
}

