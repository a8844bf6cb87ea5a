package adaptor

import (
	"fmt"
	"net/http"
	"time"

	"court-booking/internal/dto/response"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CourtHandler struct {
	availability usecase.AvailabilityService
	reservations usecase.ReservationService
	log          *zap.Logger
}

func NewCourtHandler(availability usecase.AvailabilityService, reservations usecase.ReservationService, log *zap.Logger) *CourtHandler {
	return &CourtHandler{
		availability: availability,
		reservations: reservations,
		log:          log.With(zap.String("handler", "court")),
	}
}

// GetAvailability handles GET /api/courts/{id}/availability?start=&end= (public)
func (h *CourtHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	courtID := chi.URLParam(r, "id")
	if courtID == "" {
		utils.ResponseBadRequest(w, "Court ID is required", nil)
		return
	}

	start, end, err := parseWindowParams(r, "start", "end")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	free, err := h.availability.IsFree(r.Context(), courtID, start, end)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", response.AvailabilityResponse{
		CourtID:   courtID,
		StartTime: start,
		EndTime:   end,
		Free:      free,
	})
}

// parseWindowParams reads a pair of RFC3339 query parameters.
func parseWindowParams(r *http.Request, startKey, endKey string) (time.Time, time.Time, error) {
	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get(startKey))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid %s parameter, expected RFC3339", startKey)
	}

	end, err := time.Parse(time.RFC3339, query.Get(endKey))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid %s parameter, expected RFC3339", endKey)
	}

	return start.UTC(), end.UTC(), nil
}
