package realtime

import (
	"sync"
	"time"

	"court-booking/internal/event"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingView is the client-side projection of one booking. Display fields
// are filled from snapshots; events carry only the booking core.
type BookingView struct {
	ID         uuid.UUID `json:"id"`
	CourtID    uuid.UUID `json:"court_id"`
	CourtName  string    `json:"court_name,omitempty"`
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	PriceCents int64     `json:"price_cents"`
}

// RefetchFunc pulls a single booking's full view when an update arrives for
// a booking the synchronizer has never seen.
type RefetchFunc func(bookingID uuid.UUID) (*BookingView, bool)

// StateSync maintains an eventually consistent local booking table from the
// event stream. Events may arrive out of order and duplicated; per-booking
// OccurredAt ordering decides what wins.
type StateSync struct {
	mu       sync.Mutex
	clubID   uuid.UUID // zero value means no filter
	bookings map[uuid.UUID]BookingView
	applied  map[uuid.UUID]time.Time
	refetch  RefetchFunc
	log      *zap.Logger
}

func NewStateSync(clubID uuid.UUID, refetch RefetchFunc, log *zap.Logger) *StateSync {
	return &StateSync{
		clubID:   clubID,
		bookings: make(map[uuid.UUID]BookingView),
		applied:  make(map[uuid.UUID]time.Time),
		refetch:  refetch,
		log:      log.With(zap.String("component", "statesync")),
	}
}

// Apply folds one event into local state. Malformed events are logged and
// dropped, never fatal. Returns whether the event changed anything.
func (s *StateSync) Apply(e event.Event) bool {
	if err := e.Validate(); err != nil {
		s.log.Warn("Dropping malformed event", zap.Error(err))
		return false
	}
	if e.Booking == nil {
		// payment events carry no booking state to merge
		return false
	}
	if s.clubID != uuid.Nil && e.ClubID != s.clubID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := e.Booking.ID
	if last, ok := s.applied[id]; ok && !e.OccurredAt.After(last) {
		// duplicate or stale; the newer state already won
		return false
	}

	switch e.Kind {
	case event.KindBookingCancelled:
		// Absence is fine: a cancel may land before the create.
		delete(s.bookings, id)
	case event.KindBookingCreated, event.KindBookingUpdated:
		view, ok := s.bookings[id]
		if !ok && s.refetch != nil {
			if fetched, found := s.refetch(id); found {
				view = *fetched
			}
		}
		mergeBooking(&view, e.Booking)
		s.bookings[id] = view
	}

	// The applied mark survives removal so a late booking_updated cannot
	// resurrect a cancelled booking.
	s.applied[id] = e.OccurredAt
	return true
}

func mergeBooking(view *BookingView, p *event.BookingPayload) {
	view.ID = p.ID
	view.CourtID = p.CourtID
	view.UserID = p.UserID
	view.StartTime = p.StartTime
	view.EndTime = p.EndTime
	view.Status = p.Status
	view.PriceCents = p.PriceCents
}

// Resync replaces local state wholesale from an authoritative snapshot,
// the reconnect path after a gap in the stream.
func (s *StateSync) Resync(snapshot []BookingView, asOf time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings = make(map[uuid.UUID]BookingView, len(snapshot))
	s.applied = make(map[uuid.UUID]time.Time, len(snapshot))
	for _, view := range snapshot {
		s.bookings[view.ID] = view
		s.applied[view.ID] = asOf
	}
}

// Snapshot returns a copy of the current booking table.
func (s *StateSync) Snapshot() []BookingView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]BookingView, 0, len(s.bookings))
	for _, view := range s.bookings {
		views = append(views, view)
	}
	return views
}

// Get looks up a single booking by ID.
func (s *StateSync) Get(id uuid.UUID) (BookingView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.bookings[id]
	return view, ok
}
