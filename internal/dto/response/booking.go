package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type ReservationResponse struct {
	ReservationID string    `json:"reservation_id"`
	CourtID       string    `json:"court_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	PriceCents    int64     `json:"price_cents"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type BookingResponse struct {
	ID         string               `json:"id"`
	CourtID    string               `json:"court_id"`
	UserID     string               `json:"user_id"`
	StartTime  time.Time            `json:"start_time"`
	EndTime    time.Time            `json:"end_time"`
	Status     entity.BookingStatus `json:"status"`
	PriceCents int64                `json:"price_cents"`
	ExpiresAt  *time.Time           `json:"expires_at,omitempty"`
	CoachID    *string              `json:"coach_id,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

type AvailabilityResponse struct {
	CourtID   string    `json:"court_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Free      bool      `json:"free"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:         b.ID.String(),
		CourtID:    b.CourtID.String(),
		UserID:     b.UserID.String(),
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Status:     b.Status,
		PriceCents: b.PriceCents,
		ExpiresAt:  b.ReservationExpiresAt,
		CreatedAt:  b.CreatedAt,
	}
	if b.CoachID != nil {
		coachID := b.CoachID.String()
		resp.CoachID = &coachID
	}
	return resp
}
