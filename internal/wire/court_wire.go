package wire

import (
	"court-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCourt(r chi.Router, courtHandler *adaptor.CourtHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/courts/{id}/availability?start=&end= - Slot availability check
	r.Get("/api/courts/{id}/availability", courtHandler.GetAvailability)
}
