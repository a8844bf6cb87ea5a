package entity

import "errors"

var (
	ErrCourtNotFound   = errors.New("court not found")
	ErrBookingNotFound = errors.New("booking not found")
)

var (
	// ErrSlotConflict is the expected business outcome when a court/time
	// window is already taken. Never retried server-side.
	ErrSlotConflict = errors.New("slot is not available")

	// ErrReservationExpired is distinct from a conflict so clients can
	// prompt a reselect instead of a retry.
	ErrReservationExpired = errors.New("reservation has expired")

	ErrNotOwner          = errors.New("booking does not belong to user")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)
