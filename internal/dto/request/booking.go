package request

type ReserveRequest struct {
	CourtID   string `json:"court_id" validate:"required,uuid4"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	CoachID   string `json:"coach_id,omitempty" validate:"omitempty,uuid4"`
}

// ConfirmBookingRequest converts a held reservation into a paid booking.
// ChargeStatus is the opaque signal from the payment provider.
type ConfirmBookingRequest struct {
	ReservationID string `json:"reservation_id" validate:"required,uuid4"`
	ChargeStatus  string `json:"charge_status" validate:"omitempty,oneof=succeeded failed"`
	Reference     string `json:"reference,omitempty"`
}

// DirectBookingRequest skips the hold step. Trusted (admin) callers only;
// the slot invariant still applies.
type DirectBookingRequest struct {
	CourtID   string `json:"court_id" validate:"required,uuid4"`
	UserID    string `json:"user_id" validate:"required,uuid4"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	CoachID   string `json:"coach_id,omitempty" validate:"omitempty,uuid4"`
}
