package realtime

import (
	"encoding/json"
	"sync"

	"court-booking/internal/event"

	"go.uber.org/zap"
)

// Hub tracks live connections by room and routes events to them. It
// implements event.Sink so services can push without knowing about sockets.
//
// Delivery targets the event's club room plus root admins. Organization
// admins are reached through club rooms: authentication expands an
// administered organization into every club room under it.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		log:   log.With(zap.String("component", "hub")),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range c.rooms {
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[*Client]struct{})
			h.rooms[room] = members
		}
		members[c] = struct{}{}
	}
	h.log.Debug("Client registered",
		zap.String("user_id", c.userID.String()),
		zap.Strings("rooms", c.rooms),
	)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range c.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// Emit routes an event to the club room and to root admins. A connection
// in both rooms receives the event exactly once.
func (h *Hub) Emit(e event.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		h.log.Error("Failed to marshal event", zap.Error(err), zap.String("event_id", e.ID.String()))
		return
	}

	clubRoom := RoomClub(e.ClubID)

	h.mu.RLock()
	targets := make(map[*Client]struct{})
	for c := range h.rooms[clubRoom] {
		targets[c] = struct{}{}
	}
	for c := range h.rooms[RoomRootAdmin] {
		targets[c] = struct{}{}
	}
	h.mu.RUnlock()

	for c := range targets {
		c.Send(payload)
	}

	h.log.Debug("Event emitted",
		zap.String("event_id", e.ID.String()),
		zap.String("kind", string(e.Kind)),
		zap.Int("recipients", len(targets)),
	)
}

// RoomSize reports the live connection count for a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
