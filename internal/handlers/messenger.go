package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/createex/circle/internal/database"
	"github.com/createex/circle/internal/handlers/dto"
	"github.com/createex/circle/internal/middleware"
	"github.com/createex/circle/internal/models"
	"github.com/createex/circle/internal/websocket"
)

var (
	errNotMember     = errors.New("you are not a member of this circle")
	errInvalidSend   = errors.New("invalid message payload")
	errCircleMissing = errors.New("circle not found")
)

var mediaTypes = map[string]bool{
	"image":    true,
	"video":    true,
	"audio":    true,
	"document": true,
}

// MessengerHandler owns the send pipeline: validate, authorize, persist,
// then broadcast. It serves both the HTTP surface and websocket sends.
type MessengerHandler struct {
	db  *database.Database
	hub *websocket.Hub
}

func NewMessengerHandler(db *database.Database, hub *websocket.Hub) *MessengerHandler {
	return &MessengerHandler{db: db, hub: hub}
}

// SendMessage persists a message to a circle and fans it out.
// POST /api/messenger/send
func (h *MessengerHandler) SendMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.ingest(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidSend):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, errCircleMissing):
			c.JSON(http.StatusNotFound, gin.H{"error": "circle not found"})
		case errors.Is(err, errNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			log.Printf("Failed to send message to circle %s: %v", req.CircleID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    gin.H{"messageId": message.ID},
	})
}

// ingest runs the pipeline shared by HTTP and websocket sends. Success is
// decided by persistence alone; broadcast happens after, fire-and-forget.
func (h *MessengerHandler) ingest(senderID uuid.UUID, req *dto.SendMessageRequest) (*models.Message, error) {
	// Validating
	circleID, planID, err := validateSend(req)
	if err != nil {
		return nil, err
	}

	// Authorizing
	if _, err := h.db.GetCircle(circleID.String()); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errCircleMissing
		}
		return nil, err
	}
	member, err := h.db.IsMember(senderID, circleID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errNotMember
	}

	// Persisting
	message := &models.Message{
		CircleID: circleID,
		SenderID: senderID,
		Body:     req.Message,
		Type:     req.Type,
		PlanID:   planID,
	}
	for _, m := range req.Media {
		message.Media = append(message.Media, models.MessageMedia{
			Type:     m.Type,
			URL:      m.URL,
			Mimetype: m.Mimetype,
		})
	}
	if err := h.db.AppendMessage(message); err != nil {
		return nil, err
	}

	// Broadcasting: best effort, never reported to the caller
	go h.broadcast(message)
	go func() {
		if err := h.db.UpdateLastSeen(senderID.String()); err != nil {
			log.Printf("Failed to update last seen for %s: %v", senderID, err)
		}
	}()

	return message, nil
}

func validateSend(req *dto.SendMessageRequest) (uuid.UUID, *uuid.UUID, error) {
	circleID, err := uuid.Parse(req.CircleID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: circleId is required", errInvalidSend)
	}

	if req.Type != models.MessageTypeText && req.Type != models.MessageTypePlan {
		return uuid.Nil, nil, fmt.Errorf("%w: type must be 'text' or 'plan'", errInvalidSend)
	}

	var planID *uuid.UUID
	if req.Type == models.MessageTypePlan {
		id, err := uuid.Parse(req.PlanID)
		if err != nil {
			return uuid.Nil, nil, fmt.Errorf("%w: planId is required for plan messages", errInvalidSend)
		}
		planID = &id
	}

	for _, m := range req.Media {
		if !mediaTypes[m.Type] {
			return uuid.Nil, nil, fmt.Errorf("%w: media type must be one of image, video, audio, document", errInvalidSend)
		}
		if m.URL == "" || m.Mimetype == "" {
			return uuid.Nil, nil, fmt.Errorf("%w: media entries need url and mimetype", errInvalidSend)
		}
	}

	return circleID, planID, nil
}

// broadcast fans out the room detail event and the global chat-list summary.
// Failures are logged and swallowed.
func (h *MessengerHandler) broadcast(message *models.Message) {
	sender, err := h.db.GetUser(message.SenderID.String())
	if err != nil {
		log.Printf("Broadcast skipped, sender lookup failed: %v", err)
		return
	}

	detail := websocket.Message{
		Type:      websocket.TypeNewMessageInChat,
		CircleID:  &message.CircleID,
		UserID:    message.SenderID,
		Timestamp: time.Now(),
	}
	resp := toMessageResponse(message, sender)
	if data, err := json.Marshal(resp); err == nil {
		detail.Data = data
		if payload, err := json.Marshal(detail); err == nil {
			h.hub.SendToRoom(message.CircleID, payload)
		}
	}

	summary := websocket.Message{
		Type:      websocket.TypeNewMessageInList,
		CircleID:  &message.CircleID,
		UserID:    message.SenderID,
		Timestamp: time.Now(),
	}
	update := dto.ListUpdate{
		CircleID: message.CircleID,
		Message:  message.Body,
		Type:     message.Type,
		Time:     message.CreatedAt,
	}
	if data, err := json.Marshal(update); err == nil {
		summary.Data = data
		if payload, err := json.Marshal(summary); err == nil {
			h.hub.SendToAll(payload)
		}
	}
}

// GetMessages returns one page of circle history, newest first.
// GET /api/messenger/:circleId?page=&limit=
func (h *MessengerHandler) GetMessages(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	limit := 10
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	if _, err := h.db.GetCircle(circleID.String()); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "circle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve messages"})
		return
	}
	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	messages, total, err := h.db.PageMessages(circleID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve messages"})
		return
	}

	result := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		result[i] = toMessageResponse(&messages[i], &messages[i].Sender)
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"pagination": dto.Pagination{
			Total:       total,
			Pages:       pages,
			CurrentPage: page,
		},
	})
}

// GetConversations returns the chat-list summaries for every circle the
// caller belongs to.
// GET /api/messenger/conversations
func (h *MessengerHandler) GetConversations(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circles, err := h.db.GetUserCircles(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve conversations"})
		return
	}

	summaries := make([]dto.ConversationSummary, len(circles))
	for i, circle := range circles {
		summary := dto.ConversationSummary{
			CircleID:    circle.ID,
			CircleName:  circle.Name,
			CircleImage: circle.Image,
		}

		latest, err := h.db.LatestMessage(circle.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve conversations"})
			return
		}
		if latest != nil {
			resp := toMessageResponse(latest, &latest.Sender)
			summary.LatestMessage = &resp
		}

		summaries[i] = summary
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summaries})
}

// PinMessage pins a message in the circle's conversation. Owner only.
// POST /api/messenger/:circleId/pin/:messageId
func (h *MessengerHandler) PinMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	ownerID, err := h.db.OwnerOf(circleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "circle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pin message"})
		return
	}
	if ownerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the circle owner can pin messages"})
		return
	}

	if err := h.db.PinMessage(circleID, messageID); err != nil {
		switch {
		case errors.Is(err, database.ErrAlreadyPinned):
			c.JSON(http.StatusConflict, gin.H{"error": "message already pinned"})
		case err == gorm.ErrRecordNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found in this circle"})
		default:
			log.Printf("Failed to pin message %s in circle %s: %v", messageID, circleID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pin message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message pinned successfully"})
}

// GetPinnedMessages lists the circle's pinned messages in pin order.
// GET /api/messenger/:circleId/pinned
func (h *MessengerHandler) GetPinnedMessages(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	messages, err := h.db.PinnedMessages(circleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve pinned messages"})
		return
	}

	result := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		result[i] = toMessageResponse(&messages[i], &messages[i].Sender)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}


func toMessageResponse(message *models.Message, sender *models.User) dto.MessageResponse {
	media := make([]dto.MediaItem, len(message.Media))
	for i, m := range message.Media {
		media[i] = dto.MediaItem{Type: m.Type, URL: m.URL, Mimetype: m.Mimetype}
	}

	resp := dto.MessageResponse{
		ID:       message.ID,
		CircleID: message.CircleID,
		SenderID: message.SenderID,
		Text:     message.Body,
		Type:     message.Type,
		PlanID:   message.PlanID,
		SentAt:   message.CreatedAt,
		Media:    media,
	}
	if sender != nil {
		resp.SenderName = sender.Name
		resp.SenderProfilePicture = sender.ProfilePicture
	}
	return resp
}
