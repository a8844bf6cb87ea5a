package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records the outcome of a charge attempt against a booking. The
// provider integration is opaque; only the signal and a reference survive.
// Bookings referenced here are never deleted, only cancelled.
type Payment struct {
	BaseSimple
	BookingID   uuid.UUID     `db:"booking_id"`
	AmountCents int64         `db:"amount_cents"`
	Status      PaymentStatus `db:"status"`
	Reference   *string       `db:"reference"`
}
