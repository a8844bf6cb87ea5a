package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusReserved  BookingStatus = "reserved"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking covers both a confirmed court booking and, while status is
// "reserved", the short-lived hold a user keeps during checkout.
type Booking struct {
	BaseNoDelete
	CourtID              uuid.UUID     `db:"court_id"`
	UserID               uuid.UUID     `db:"user_id"`
	StartTime            time.Time     `db:"start_time"`
	EndTime              time.Time     `db:"end_time"`
	Status               BookingStatus `db:"status"`
	ReservedAt           *time.Time    `db:"reserved_at"`
	ReservationExpiresAt *time.Time    `db:"reservation_expires_at"`
	PriceCents           int64         `db:"price_cents"`
	CoachID              *uuid.UUID    `db:"coach_id"`
}

// CanTransitionTo enforces one-directional status movement. Nothing ever
// re-enters "reserved", and "cancelled" is terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusPaid || next == BookingStatusCancelled
	case BookingStatusReserved:
		return next == BookingStatusPaid || next == BookingStatusCancelled
	case BookingStatusPaid:
		return next == BookingStatusCancelled
	default:
		return false
	}
}

// HoldActive reports whether the booking is an unexpired reservation hold.
func (b *Booking) HoldActive(now time.Time) bool {
	return b.Status == BookingStatusReserved &&
		b.ReservationExpiresAt != nil &&
		b.ReservationExpiresAt.After(now)
}

// Blocks reports whether the booking keeps its slot occupied: paid rows
// always do, reserved rows only until their hold expires.
func (b *Booking) Blocks(now time.Time) bool {
	return b.Status == BookingStatusPaid || b.HoldActive(now)
}
