package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindBookingCreated   Kind = "booking_created"
	KindBookingUpdated   Kind = "booking_updated"
	KindBookingCancelled Kind = "booking_cancelled"
	KindPaymentConfirmed Kind = "payment_confirmed"
	KindPaymentFailed    Kind = "payment_failed"
)

// kindAliases maps legacy colon-style event names onto the canonical kinds.
var kindAliases = map[string]Kind{
	"booking:created":   KindBookingCreated,
	"booking:updated":   KindBookingUpdated,
	"booking:cancelled": KindBookingCancelled,
	"payment:confirmed": KindPaymentConfirmed,
	"payment:failed":    KindPaymentFailed,
}

// ParseKind resolves a wire kind string, accepting legacy aliases and
// rejecting anything unknown.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBookingCreated, KindBookingUpdated, KindBookingCancelled,
		KindPaymentConfirmed, KindPaymentFailed:
		return Kind(s), nil
	}
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown event kind %q", s)
}

// BookingPayload carries the booking core for booking_* events. Display-only
// fields (court and user names) are intentionally omitted; clients re-fetch
// them when needed.
type BookingPayload struct {
	ID         uuid.UUID `json:"id"`
	CourtID    uuid.UUID `json:"court_id"`
	UserID     uuid.UUID `json:"user_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	PriceCents int64     `json:"price_cents"`
}

// PaymentPayload carries the charge outcome for payment_* events.
type PaymentPayload struct {
	BookingID   uuid.UUID `json:"booking_id"`
	UserID      uuid.UUID `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
}

// Event is the unit pushed over the wire. Exactly one payload field is set,
// matching the kind.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Kind       Kind            `json:"kind"`
	ClubID     uuid.UUID       `json:"club_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Booking    *BookingPayload `json:"booking,omitempty"`
	Payment    *PaymentPayload `json:"payment,omitempty"`
}

// Validate checks the event at the boundary: known kind, scoping key, and
// the payload variant the kind demands.
func (e *Event) Validate() error {
	if _, err := ParseKind(string(e.Kind)); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		return fmt.Errorf("event has no id")
	}
	if e.ClubID == uuid.Nil {
		return fmt.Errorf("event %s has no club id", e.Kind)
	}
	switch e.Kind {
	case KindBookingCreated, KindBookingUpdated, KindBookingCancelled:
		if e.Booking == nil || e.Booking.ID == uuid.Nil {
			return fmt.Errorf("event %s missing booking payload", e.Kind)
		}
	case KindPaymentConfirmed, KindPaymentFailed:
		if e.Payment == nil || e.Payment.BookingID == uuid.Nil {
			return fmt.Errorf("event %s missing payment payload", e.Kind)
		}
	}
	return nil
}

// Decode parses and validates a wire event, normalizing aliased kinds.
func Decode(data []byte) (Event, error) {
	var raw struct {
		Event
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	kind, err := ParseKind(raw.Kind)
	if err != nil {
		return Event{}, err
	}
	ev := raw.Event
	ev.Kind = kind
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}
