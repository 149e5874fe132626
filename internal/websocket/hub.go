package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	// System types
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"

	// Client -> server
	TypeMessage   MessageType = "message"
	TypeOpenRooms MessageType = "openRooms"
	TypeCloseAll  MessageType = "closeRooms"
	TypeJoinRoom  MessageType = "joinRoom"
	TypeLeaveRoom MessageType = "leaveRoom"

	// Server -> client
	TypeNewMessageInChat MessageType = "newMessageInChat"
	TypeNewMessageInList MessageType = "newMessageInList"
)

type Message struct {
	Type      MessageType     `json:"type"`
	CircleID  *uuid.UUID      `json:"circleId,omitempty"`
	UserID    uuid.UUID       `json:"userId"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// MembershipDirectory resolves user<->circle membership. Room joins are gated
// by a fresh lookup on every call so subscriptions never outlive a membership
// change by more than one join.
type MembershipDirectory interface {
	IsMember(userID, circleID uuid.UUID) (bool, error)
	CirclesFor(userID uuid.UUID) ([]uuid.UUID, error)
	OwnerOf(circleID uuid.UUID) (uuid.UUID, error)
}

// Hub tracks authenticated connections and their room subscriptions, and
// fans events out to rooms or to every connected client.
type Hub struct {
	directory MembershipDirectory

	clients map[uuid.UUID]*Client

	// Clients by user id (one user may hold several connections)
	userClients map[uuid.UUID]map[uuid.UUID]*Client

	// Clients subscribed per circle room
	rooms map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(directory MembershipDirectory) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		directory:   directory,
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		rooms:       make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	h.clients = make(map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.UserID][client.ID] = client

	log.Printf("Client registered: %s (user: %s)", client.ID, client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for _, circleID := range client.Rooms() {
		h.removeFromRoomUnsafe(client, circleID)
	}

	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)

	log.Printf("Client unregistered: %s (user: %s)", client.ID, client.UserID)
}

// JoinRoom subscribes the client to a circle room after a membership check.
// Non-members are refused silently: logged, no error sent, no disconnect.
func (h *Hub) JoinRoom(client *Client, circleID uuid.UUID) {
	member, err := h.directory.IsMember(client.UserID, circleID)
	if err != nil {
		log.Printf("Membership lookup failed for user %s, circle %s: %v", client.UserID, circleID, err)
		return
	}
	if !member {
		log.Printf("User %s not authorized to join room %s", client.UserID, circleID)
		return
	}

	h.addToRoom(client, circleID)
}

// OpenMemberRooms subscribes the client to every circle the user belongs to.
// Used when the aggregate chat list is opened.
func (h *Hub) OpenMemberRooms(client *Client) {
	circleIDs, err := h.directory.CirclesFor(client.UserID)
	if err != nil {
		log.Printf("Circle lookup failed for user %s: %v", client.UserID, err)
		return
	}

	for _, circleID := range circleIDs {
		h.addToRoom(client, circleID)
	}
}

// CloseAllRooms unsubscribes the client from every room it holds. The
// connection itself (its private send channel) stays up. Idempotent.
func (h *Hub) CloseAllRooms(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, circleID := range client.Rooms() {
		h.removeFromRoomUnsafe(client, circleID)
	}
}

func (h *Hub) LeaveRoom(client *Client, circleID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomUnsafe(client, circleID)
}

func (h *Hub) addToRoom(client *Client, circleID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[circleID]; !ok {
		h.rooms[circleID] = make(map[uuid.UUID]*Client)
	}

	h.rooms[circleID][client.ID] = client
	client.addRoom(circleID)

	log.Printf("User %s joined room %s", client.UserID, circleID)
}

func (h *Hub) removeFromRoomUnsafe(client *Client, circleID uuid.UUID) {
	room, ok := h.rooms[circleID]
	if !ok {
		return
	}
	if _, ok := room[client.ID]; !ok {
		return
	}

	delete(room, client.ID)
	client.removeRoom(circleID)

	if len(room) == 0 {
		delete(h.rooms, circleID)
	}
}

// SendToRoom delivers payload to every client subscribed to the circle room.
// Best effort: clients with a full queue are skipped and logged.
func (h *Hub) SendToRoom(circleID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[circleID]
	if !ok {
		return
	}

	for _, client := range room {
		select {
		case client.Send <- payload:
		default:
			log.Printf("Client %s send channel full, dropping room event", client.ID)
		}
	}
}

// SendToAll delivers payload to every connected client regardless of room
// subscriptions. Used for chat-list summaries.
func (h *Hub) SendToAll(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			log.Printf("Client %s send channel full, dropping list event", client.ID)
		}
	}
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := Message{
		Type:      TypePing,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(msg); err == nil {
		for _, client := range h.clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// OnlineUsers returns users with at least one live connection.
func (h *Hub) OnlineUsers() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uuid.UUID, 0, len(h.userClients))
	for userID := range h.userClients {
		users = append(users, userID)
	}
	return users
}

// RoomUsers returns users currently subscribed to the circle room.
func (h *Hub) RoomUsers(circleID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userMap := make(map[uuid.UUID]bool)
	for _, client := range h.rooms[circleID] {
		userMap[client.UserID] = true
	}

	users := make([]uuid.UUID, 0, len(userMap))
	for userID := range userMap {
		users = append(users, userID)
	}
	return users
}
