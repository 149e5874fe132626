package websocket

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeDirectory is an in-memory MembershipDirectory.
type fakeDirectory struct {
	members map[uuid.UUID][]uuid.UUID // circle -> users
	owners  map[uuid.UUID]uuid.UUID
}

func (f *fakeDirectory) IsMember(userID, circleID uuid.UUID) (bool, error) {
	for _, id := range f.members[circleID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDirectory) CirclesFor(userID uuid.UUID) ([]uuid.UUID, error) {
	var circles []uuid.UUID
	for circleID, users := range f.members {
		for _, id := range users {
			if id == userID {
				circles = append(circles, circleID)
				break
			}
		}
	}
	return circles, nil
}

func (f *fakeDirectory) OwnerOf(circleID uuid.UUID) (uuid.UUID, error) {
	owner, ok := f.owners[circleID]
	if !ok {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return owner, nil
}

// newTestClient builds a client without a network connection. Payloads are
// read straight off the Send channel.
func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	client := NewClient(hub, nil, userID)
	hub.registerClient(client)
	return client
}

func drain(c *Client) [][]byte {
	var payloads [][]byte
	for {
		select {
		case p := <-c.Send:
			payloads = append(payloads, p)
		default:
			return payloads
		}
	}
}

func TestSendToRoomReachesOnlySubscribers(t *testing.T) {
	circleID := uuid.New()
	memberA, memberB := uuid.New(), uuid.New()
	dir := &fakeDirectory{
		members: map[uuid.UUID][]uuid.UUID{circleID: {memberA, memberB}},
	}
	hub := NewHub(dir)
	defer hub.Stop()

	inRoom := newTestClient(hub, memberA)
	connected := newTestClient(hub, memberB)

	hub.JoinRoom(inRoom, circleID)
	hub.SendToRoom(circleID, []byte("room event"))

	if got := drain(inRoom); len(got) != 1 || string(got[0]) != "room event" {
		t.Errorf("subscriber got %q, want one %q", got, "room event")
	}
	if got := drain(connected); len(got) != 0 {
		t.Errorf("non-subscriber got %d payloads, want 0", len(got))
	}
}

func TestSendToAllIgnoresRooms(t *testing.T) {
	dir := &fakeDirectory{members: map[uuid.UUID][]uuid.UUID{}}
	hub := NewHub(dir)
	defer hub.Stop()

	a := newTestClient(hub, uuid.New())
	b := newTestClient(hub, uuid.New())

	hub.SendToAll([]byte("list event"))

	for name, client := range map[string]*Client{"a": a, "b": b} {
		if got := drain(client); len(got) != 1 {
			t.Errorf("client %s got %d payloads, want 1", name, len(got))
		}
	}
}

func TestJoinRoomRefusesNonMembersSilently(t *testing.T) {
	circleID := uuid.New()
	member, outsider := uuid.New(), uuid.New()
	dir := &fakeDirectory{
		members: map[uuid.UUID][]uuid.UUID{circleID: {member}},
	}
	hub := NewHub(dir)
	defer hub.Stop()

	client := newTestClient(hub, outsider)
	hub.JoinRoom(client, circleID)

	if client.IsInRoom(circleID) {
		t.Error("outsider ended up subscribed to the room")
	}
	// refusal must not send anything down the connection
	if got := drain(client); len(got) != 0 {
		t.Errorf("outsider got %d payloads, want 0", len(got))
	}

	hub.SendToRoom(circleID, []byte("room event"))
	if got := drain(client); len(got) != 0 {
		t.Errorf("outsider received a room event after refused join")
	}
}

func TestOpenAndCloseRooms(t *testing.T) {
	circleA, circleB := uuid.New(), uuid.New()
	userID := uuid.New()
	dir := &fakeDirectory{
		members: map[uuid.UUID][]uuid.UUID{
			circleA: {userID},
			circleB: {userID},
		},
	}
	hub := NewHub(dir)
	defer hub.Stop()

	client := newTestClient(hub, userID)
	hub.OpenMemberRooms(client)

	if len(client.Rooms()) != 2 {
		t.Fatalf("subscribed to %d rooms, want 2", len(client.Rooms()))
	}

	hub.CloseAllRooms(client)
	if len(client.Rooms()) != 0 {
		t.Errorf("still subscribed to %d rooms after close", len(client.Rooms()))
	}

	hub.SendToRoom(circleA, []byte("room event"))
	if got := drain(client); len(got) != 0 {
		t.Errorf("got %d payloads after closing rooms, want 0", len(got))
	}

	// closing with no rooms held is a no-op
	hub.CloseAllRooms(client)
}

func TestUnregisterLeavesRooms(t *testing.T) {
	circleID := uuid.New()
	userID := uuid.New()
	dir := &fakeDirectory{
		members: map[uuid.UUID][]uuid.UUID{circleID: {userID}},
	}
	hub := NewHub(dir)
	defer hub.Stop()

	client := newTestClient(hub, userID)
	hub.JoinRoom(client, circleID)
	hub.unregisterClient(client)

	if users := hub.RoomUsers(circleID); len(users) != 0 {
		t.Errorf("room still holds %d users after unregister", len(users))
	}
	if users := hub.OnlineUsers(); len(users) != 0 {
		t.Errorf("%d users still online after unregister", len(users))
	}
}
