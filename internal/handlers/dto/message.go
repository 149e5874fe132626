package dto

import (
	"time"

	"github.com/google/uuid"
)

// MediaItem is one attachment on an outgoing message.
type MediaItem struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Mimetype string `json:"mimetype"`
}

// SendMessageRequest is the payload of a send, over HTTP or websocket.
// CircleID is required over HTTP; over websocket it comes from the envelope.
type SendMessageRequest struct {
	CircleID string      `json:"circleId"`
	Message  string      `json:"message"`
	Type     string      `json:"type"`
	PlanID   string      `json:"planId,omitempty"`
	Media    []MediaItem `json:"media"`
}

// MessageResponse is the detail payload broadcast to room subscribers and
// returned from history reads.
type MessageResponse struct {
	ID                   uuid.UUID   `json:"id"`
	CircleID             uuid.UUID   `json:"circleId"`
	SenderID             uuid.UUID   `json:"senderId"`
	SenderName           string      `json:"senderName"`
	SenderProfilePicture string      `json:"senderProfilePicture,omitempty"`
	Text                 string      `json:"text"`
	Type                 string      `json:"type"`
	PlanID               *uuid.UUID  `json:"planId,omitempty"`
	SentAt               time.Time   `json:"sentAt"`
	Media                []MediaItem `json:"media"`
}

// ListUpdate is the lightweight chat-list summary broadcast to every
// connected client.
type ListUpdate struct {
	CircleID uuid.UUID `json:"circleId"`
	Message  string    `json:"message"`
	Type     string    `json:"type"`
	Time     time.Time `json:"time"`
}

// ConversationSummary previews one circle in the aggregate chat list.
type ConversationSummary struct {
	CircleID      uuid.UUID        `json:"circleId"`
	CircleName    string           `json:"circleName"`
	CircleImage   string           `json:"circleImage,omitempty"`
	LatestMessage *MessageResponse `json:"latestMessage"`
}

type Pagination struct {
	Total       int64 `json:"total"`
	Pages       int64 `json:"pages"`
	CurrentPage int   `json:"currentPage"`
}
