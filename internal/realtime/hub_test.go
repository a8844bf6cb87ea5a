package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"court-booking/internal/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(hub *Hub, rooms []string) *Client {
	return NewClient(hub, nil, &ConnectionContext{
		UserID: uuid.New(),
		Rooms:  rooms,
	}, zap.NewNop())
}

func drain(t *testing.T, c *Client) event.Event {
	t.Helper()
	select {
	case payload := <-c.send:
		var ev event.Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		return ev
	default:
		t.Fatal("expected a queued event")
		return event.Event{}
	}
}

func emitted(clubID uuid.UUID) event.Event {
	return event.Event{
		ID:         uuid.New(),
		Kind:       event.KindBookingCreated,
		ClubID:     clubID,
		OccurredAt: time.Now().UTC(),
		Booking: &event.BookingPayload{
			ID:      uuid.New(),
			CourtID: uuid.New(),
			UserID:  uuid.New(),
			Status:  "reserved",
		},
	}
}

func TestHubRoutesByClubRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	clubA := uuid.New()
	clubB := uuid.New()

	memberA := newTestClient(hub, []string{RoomClub(clubA)})
	memberB := newTestClient(hub, []string{RoomClub(clubB)})
	hub.Register(memberA)
	hub.Register(memberB)

	ev := emitted(clubA)
	hub.Emit(ev)

	got := drain(t, memberA)
	assert.Equal(t, ev.ID, got.ID)
	assert.Empty(t, memberB.send, "other club must not receive the event")
}

func TestHubDeliversToRootAdmin(t *testing.T) {
	hub := NewHub(zap.NewNop())
	admin := newTestClient(hub, []string{RoomRootAdmin})
	hub.Register(admin)

	hub.Emit(emitted(uuid.New()))
	hub.Emit(emitted(uuid.New()))

	assert.Len(t, admin.send, 2)
}

func TestHubDeliversOncePerConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	clubID := uuid.New()

	// root admin who also belongs to the club room
	both := newTestClient(hub, []string{RoomRootAdmin, RoomClub(clubID)})
	hub.Register(both)

	hub.Emit(emitted(clubID))
	assert.Len(t, both.send, 1)
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	clubID := uuid.New()

	member := newTestClient(hub, []string{RoomClub(clubID)})
	hub.Register(member)
	assert.Equal(t, 1, hub.RoomSize(RoomClub(clubID)))

	hub.Unregister(member)
	assert.Zero(t, hub.RoomSize(RoomClub(clubID)))

	hub.Emit(emitted(clubID))
	assert.Empty(t, member.send)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	clubID := uuid.New()

	member := newTestClient(hub, []string{RoomClub(clubID)})
	hub.Register(member)

	// fill the send buffer and push one more
	for i := 0; i < sendBuffer+1; i++ {
		hub.Emit(emitted(clubID))
	}

	select {
	case <-member.once:
		// the overflowing send closed the client
	default:
		t.Fatal("slow client should have been closed")
	}
}
