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

type StoryHandler struct {
	db *database.Database
}

func NewStoryHandler(db *database.Database) *StoryHandler {
	return &StoryHandler{db: db}
}

// CreateStory posts an ephemeral story to a circle. Stories expire 24h after
// creation.
// POST /api/story/:circleId
func (h *StoryHandler) CreateStory(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	var req struct {
		MediaURL  string `json:"mediaUrl" binding:"required"`
		MediaType string `json:"mediaType" binding:"required,oneof=image video"`
		Text      string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	story := &models.Story{
		CircleID:    circleID,
		CreatedByID: userID,
		Text:        req.Text,
		MediaURL:    req.MediaURL,
		MediaType:   req.MediaType,
		CreatedAt:   time.Now(),
	}
	if err := h.db.CreateStory(story); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create story"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Story created successfully"})
}

// GetStories returns the circle's active stories grouped by author,
// newest author activity first.
// GET /api/story/:circleId
func (h *StoryHandler) GetStories(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	stories, err := h.db.ActiveStories(circleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve stories"})
		return
	}

	// Group by author, preserving newest-first order of first appearance
	order := make([]uuid.UUID, 0)
	grouped := make(map[uuid.UUID]gin.H)
	for _, story := range stories {
		authorID := story.CreatedByID
		entry, ok := grouped[authorID]
		if !ok {
			entry = gin.H{
				"user": gin.H{
					"id":             authorID,
					"name":           story.CreatedBy.Name,
					"profilePicture": story.CreatedBy.ProfilePicture,
				},
				"stories": []gin.H{},
			}
			grouped[authorID] = entry
			order = append(order, authorID)
		}
		entry["stories"] = append(entry["stories"].([]gin.H), gin.H{
			"id":        story.ID,
			"mediaUrl":  story.MediaURL,
			"mediaType": story.MediaType,
			"text":      story.Text,
			"createdAt": story.CreatedAt,
		})
	}

	result := make([]gin.H, len(order))
	for i, authorID := range order {
		result[i] = grouped[authorID]
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stories retrieved successfully", "data": result})
}

