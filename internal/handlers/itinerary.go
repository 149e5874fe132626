package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/createex/circle/internal/database"
	"github.com/createex/circle/internal/middleware"
	"github.com/createex/circle/internal/models"
)

type ItineraryHandler struct {
	db *database.Database
}

func NewItineraryHandler(db *database.Database) *ItineraryHandler {
	return &ItineraryHandler{db: db}
}

// CreateItinerary adds a schedule entry to the caller's personal itinerary.
// POST /api/itinerary
func (h *ItineraryHandler) CreateItinerary(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req struct {
		Name  string    `json:"name" binding:"required"`
		About string    `json:"about" binding:"required"`
		Date  time.Time `json:"date" binding:"required"`
		Time  string    `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all required fields"})
		return
	}

	itinerary := &models.Itinerary{
		UserID:    userID,
		Name:      req.Name,
		About:     req.About,
		Date:      req.Date,
		Time:      req.Time,
		CreatedAt: time.Now(),
	}
	if err := h.db.CreateItinerary(itinerary); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create itinerary"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Itinerary created successfully",
		"itinerary": itinerary,
	})
}

// GetItineraries lists the caller's itineraries for one calendar day.
// GET /api/itinerary?date=YYYY-MM-DD
func (h *ItineraryHandler) GetItineraries(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	itineraries, err := h.db.ItinerariesOn(userID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve itineraries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "itineraries": itineraries})
}
