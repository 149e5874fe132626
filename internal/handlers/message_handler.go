package handlers

import (
	"encoding/json"
	"log"

	"github.com/createex/circle/internal/handlers/dto"
	"github.com/createex/circle/internal/websocket"
)

// MessageHandler routes non-room websocket events into the send pipeline.
type MessageHandler struct {
	messenger *MessengerHandler
}

func NewMessageHandler(messenger *MessengerHandler) *MessageHandler {
	return &MessageHandler{messenger: messenger}
}

func (h *MessageHandler) HandleMessage(client *websocket.Client, msg *websocket.Message) error {
	switch msg.Type {
	case websocket.TypeMessage:
		return h.handleSend(client, msg)

	default:
		log.Printf("Unknown message type: %s", msg.Type)
		return nil
	}
}

// handleSend runs a websocket send through the same pipeline as HTTP sends.
func (h *MessageHandler) handleSend(client *websocket.Client, msg *websocket.Message) error {
	if msg.CircleID == nil {
		return websocket.ErrInvalidMessage
	}

	var req dto.SendMessageRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return websocket.ErrInvalidMessage
		}
	}
	req.CircleID = msg.CircleID.String()
	if req.Type == "" {
		req.Type = "text"
	}

	_, err := h.messenger.ingest(client.UserID, &req)
	return err
}
