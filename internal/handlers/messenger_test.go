package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/createex/circle/internal/database"
	"github.com/createex/circle/internal/middleware"
	"github.com/createex/circle/internal/models"
	"github.com/createex/circle/internal/websocket"
)

type messengerFixture struct {
	db     *database.Database
	hub    *websocket.Hub
	router *gin.Engine
	owner  *models.User
	member *models.User
	circle *models.Circle
}

func newMessengerFixture(t *testing.T) *messengerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db := database.NewDatabase(gdb)

	owner := &models.User{Name: "alice", Email: "alice@example.com", PhoneNumber: "+100"}
	if err := db.SaveUser(owner); err != nil {
		t.Fatalf("save owner: %v", err)
	}
	member := &models.User{Name: "bob", Email: "bob@example.com", PhoneNumber: "+200"}
	if err := db.SaveUser(member); err != nil {
		t.Fatalf("save member: %v", err)
	}

	circle := &models.Circle{
		Name:     "test circle",
		Type:     "friend",
		Interest: "Other",
		OwnerID:  owner.ID,
		Members:  []models.User{{ID: member.ID}},
	}
	if err := db.CreateCircle(circle, nil); err != nil {
		t.Fatalf("create circle: %v", err)
	}

	hub := websocket.NewHub(db)
	go hub.Run()
	t.Cleanup(hub.Stop)

	h := NewMessengerHandler(db, hub)
	router := gin.New()
	// stand-in for the auth middleware
	router.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-Test-User")); err == nil {
			c.Set(middleware.UserIDKey, id)
		}
	})
	router.POST("/api/messenger/send", h.SendMessage)
	router.GET("/api/messenger/conversations", h.GetConversations)
	router.GET("/api/messenger/:circleId", h.GetMessages)
	router.POST("/api/messenger/:circleId/pin/:messageId", h.PinMessage)
	router.GET("/api/messenger/:circleId/pinned", h.GetPinnedMessages)

	return &messengerFixture{db: db, hub: hub, router: router, owner: owner, member: member, circle: circle}
}

// request performs an HTTP request authenticated as userID.
func (f *messengerFixture) request(t *testing.T, method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", userID.String())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *messengerFixture) send(t *testing.T, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	return f.request(t, http.MethodPost, "/api/messenger/send", userID, body)
}

func TestSendMessagePersistsAndBroadcasts(t *testing.T) {
	f := newMessengerFixture(t)

	subscriber := websocket.NewClient(f.hub, nil, f.member.ID)
	f.hub.Register(subscriber)
	f.hub.JoinRoom(subscriber, f.circle.ID)

	w := f.send(t, f.member.ID, map[string]any{
		"circleId": f.circle.ID.String(),
		"message":  "hello",
		"type":     "text",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			MessageID uuid.UUID `json:"messageId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.MessageID == uuid.Nil {
		t.Fatal("response carries no message id")
	}

	messages, total, err := f.db.PageMessages(f.circle.ID, 1, 10)
	if err != nil {
		t.Fatalf("PageMessages() error = %v", err)
	}
	if total != 1 || len(messages) != 1 {
		t.Fatalf("history holds %d messages (total %d), want 1", len(messages), total)
	}
	if messages[0].Body != "hello" || messages[0].ID != resp.Data.MessageID {
		t.Errorf("stored message = %+v, want body %q id %s", messages[0], "hello", resp.Data.MessageID)
	}

	detail := waitForEvent(t, subscriber, websocket.TypeNewMessageInChat)
	if detail.CircleID == nil || *detail.CircleID != f.circle.ID {
		t.Errorf("detail event circle = %v, want %s", detail.CircleID, f.circle.ID)
	}
	var payload struct {
		Text     string    `json:"text"`
		SenderID uuid.UUID `json:"senderId"`
	}
	if err := json.Unmarshal(detail.Data, &payload); err != nil {
		t.Fatalf("decode detail payload: %v", err)
	}
	if payload.Text != "hello" || payload.SenderID != f.member.ID {
		t.Errorf("detail payload = %+v, want text %q from %s", payload, "hello", f.member.ID)
	}
	waitForEvent(t, subscriber, websocket.TypeNewMessageInList)

	// a send also bumps the sender's last-seen timestamp, asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for {
		sender, err := f.db.GetUser(f.member.ID.String())
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if !sender.LastSeenAt.IsZero() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("last-seen timestamp never updated after send")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSendMessageRejectsNonMembers(t *testing.T) {
	f := newMessengerFixture(t)

	outsider := &models.User{Name: "eve", Email: "eve@example.com", PhoneNumber: "+300"}
	if err := f.db.SaveUser(outsider); err != nil {
		t.Fatalf("save outsider: %v", err)
	}

	w := f.send(t, outsider.ID, map[string]any{
		"circleId": f.circle.ID.String(),
		"message":  "let me in",
		"type":     "text",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403, body %s", w.Code, w.Body.String())
	}

	_, total, err := f.db.PageMessages(f.circle.ID, 1, 10)
	if err != nil {
		t.Fatalf("PageMessages() error = %v", err)
	}
	if total != 0 {
		t.Errorf("history grew to %d after a rejected send", total)
	}
}

func TestSendMessageValidation(t *testing.T) {
	f := newMessengerFixture(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "unknown type",
			body: map[string]any{"circleId": f.circle.ID.String(), "message": "hi", "type": "gif"},
			want: http.StatusBadRequest,
		},
		{
			name: "plan type without planId",
			body: map[string]any{"circleId": f.circle.ID.String(), "message": "hi", "type": "plan"},
			want: http.StatusBadRequest,
		},
		{
			name: "media entry without url",
			body: map[string]any{
				"circleId": f.circle.ID.String(),
				"message":  "hi",
				"type":     "text",
				"media":    []map[string]string{{"type": "image", "mimetype": "image/png"}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown circle",
			body: map[string]any{"circleId": uuid.NewString(), "message": "hi", "type": "text"},
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.send(t, f.member.ID, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGetMessagesUnknownCircle(t *testing.T) {
	f := newMessengerFixture(t)

	w := f.request(t, http.MethodGet, "/api/messenger/"+uuid.NewString(), f.member.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404, body %s", w.Code, w.Body.String())
	}
}

func TestGetConversations(t *testing.T) {
	f := newMessengerFixture(t)

	quiet := &models.Circle{
		Name:     "quiet circle",
		Type:     "friend",
		Interest: "Other",
		OwnerID:  f.owner.ID,
		Members:  []models.User{{ID: f.member.ID}},
	}
	if err := f.db.CreateCircle(quiet, nil); err != nil {
		t.Fatalf("create quiet circle: %v", err)
	}

	if w := f.send(t, f.member.ID, map[string]any{
		"circleId": f.circle.ID.String(),
		"message":  "latest one",
		"type":     "text",
	}); w.Code != http.StatusCreated {
		t.Fatalf("send status = %d, body %s", w.Code, w.Body.String())
	}

	w := f.request(t, http.MethodGet, "/api/messenger/conversations", f.member.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []struct {
			CircleID      uuid.UUID `json:"circleId"`
			CircleName    string    `json:"circleName"`
			LatestMessage *struct {
				Text     string    `json:"text"`
				SenderID uuid.UUID `json:"senderId"`
			} `json:"latestMessage"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("got %d summaries, want 2", len(resp.Data))
	}

	byCircle := make(map[uuid.UUID]int)
	for i, summary := range resp.Data {
		byCircle[summary.CircleID] = i
	}

	active, ok := byCircle[f.circle.ID]
	if !ok {
		t.Fatal("active circle missing from summaries")
	}
	latest := resp.Data[active].LatestMessage
	if latest == nil || latest.Text != "latest one" || latest.SenderID != f.member.ID {
		t.Errorf("active circle latestMessage = %+v, want %q from %s", latest, "latest one", f.member.ID)
	}

	idle, ok := byCircle[quiet.ID]
	if !ok {
		t.Fatal("quiet circle missing from summaries")
	}
	if resp.Data[idle].LatestMessage != nil {
		t.Errorf("quiet circle latestMessage = %+v, want null", resp.Data[idle].LatestMessage)
	}
}

func TestPinEndpointAuthorization(t *testing.T) {
	f := newMessengerFixture(t)

	msg := &models.Message{
		CircleID: f.circle.ID,
		SenderID: f.member.ID,
		Body:     "pin me",
		Type:     models.MessageTypeText,
	}
	if err := f.db.AppendMessage(msg); err != nil {
		t.Fatalf("append message: %v", err)
	}

	pinPath := fmt.Sprintf("/api/messenger/%s/pin/%s", f.circle.ID, msg.ID)

	if w := f.request(t, http.MethodPost, pinPath, f.member.ID, nil); w.Code != http.StatusForbidden {
		t.Errorf("non-owner pin status = %d, want 403", w.Code)
	}
	if w := f.request(t, http.MethodPost, pinPath, f.owner.ID, nil); w.Code != http.StatusOK {
		t.Errorf("owner pin status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if w := f.request(t, http.MethodPost, pinPath, f.owner.ID, nil); w.Code != http.StatusConflict {
		t.Errorf("repeat pin status = %d, want 409", w.Code)
	}
}

func waitForEvent(t *testing.T, client *websocket.Client, want websocket.MessageType) *websocket.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case payload := <-client.Send:
			var msg websocket.Message
			if err := json.Unmarshal(payload, &msg); err != nil {
				t.Fatalf("decode event: %v", err)
			}
			if msg.Type == want {
				return &msg
			}
		case <-deadline:
			t.Fatalf("no %s event within deadline", want)
		}
	}
}
