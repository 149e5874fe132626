package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512 * 1024 // 512KB
)

// Client is one authenticated live connection. Its room set is guarded by a
// connection-scoped mutex so concurrent join/leave calls cannot lose updates.
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub

	mu    sync.RWMutex
	rooms map[uuid.UUID]bool
}

// ClientMessageHandler receives events the hub does not handle itself,
// i.e. everything other than room management.
type ClientMessageHandler interface {
	HandleMessage(client *Client, msg *Message) error
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		rooms:  make(map[uuid.UUID]bool),
		Hub:    hub,
	}
}

// ReadPump reads client events. Room management goes straight to the hub;
// anything else is delegated to the handler.
func (c *Client) ReadPump(handler ClientMessageHandler) {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		msg.UserID = c.UserID

		switch msg.Type {
		case TypePong:
			continue

		case TypeOpenRooms:
			c.Hub.OpenMemberRooms(c)
			continue

		case TypeCloseAll:
			c.Hub.CloseAllRooms(c)
			continue

		case TypeJoinRoom:
			if msg.CircleID != nil {
				c.Hub.JoinRoom(c, *msg.CircleID)
			}
			continue

		case TypeLeaveRoom:
			if msg.CircleID != nil {
				c.Hub.LeaveRoom(c, *msg.CircleID)
			}
			continue
		}

		if handler != nil {
			if err := handler.HandleMessage(c, &msg); err != nil {
				log.Printf("Error handling message: %v", err)
				c.SendError(err.Error())
			}
		}
	}
}

// WritePump drains the send channel in submission order and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// Flush whatever queued up behind this write
			n := len(c.Send)
			for i := 0; i < n; i++ {
				if err := c.Conn.WriteMessage(websocket.TextMessage, <-c.Send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) SendMessage(msgType MessageType, data interface{}) error {
	msg := Message{
		Type:      msgType,
		Timestamp: time.Now(),
	}

	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return err
		}
		msg.Data = jsonData
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.Send <- msgData:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(errorMsg string) {
	c.SendMessage("error", map[string]string{
		"error": errorMsg,
	})
}

func (c *Client) IsInRoom(circleID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[circleID]
}

func (c *Client) Rooms() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make([]uuid.UUID, 0, len(c.rooms))
	for circleID := range c.rooms {
		rooms = append(rooms, circleID)
	}
	return rooms
}

func (c *Client) addRoom(circleID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[circleID] = true
}

func (c *Client) removeRoom(circleID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, circleID)
}
