package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.ReservationService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateReservation handles POST /api/reservations (protected)
func (h *BookingHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.Reserve(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "success", reservation)
}

// CreateBooking handles POST /api/bookings (protected). A body carrying
// reservation_id converts an existing hold; a body carrying court and time
// fields books directly, which only admins may do.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	var probe struct {
		ReservationID string `json:"reservation_id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if probe.ReservationID != "" {
		var req request.ConfirmBookingRequest
		if err := json.Unmarshal(body, &req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}

		if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
			utils.ResponseBadRequest(w, "Validation failed", validationErrors)
			return
		}

		booking, err := h.service.ConfirmPayment(r.Context(), userID.String(), &req)
		if err != nil {
			handleServiceError(w, h.log, err, "confirm booking")
			return
		}

		utils.ResponseSuccess(w, "success", booking)
		return
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	if role != "admin" && role != "root_admin" {
		utils.ResponseForbidden(w, "Direct booking requires admin access")
		return
	}

	var req request.DirectBookingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateDirect(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create direct booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// CreateTrustedBooking handles POST /api/internal/bookings, the
// machine-to-machine direct booking path behind the API key check.
func (h *BookingHandler) CreateTrustedBooking(w http.ResponseWriter, r *http.Request) {
	var req request.DirectBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateDirect(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create trusted booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (protected). Owners
// cancel their own bookings; admins cancel anyone's.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	isAdmin := role == "admin" || role == "root_admin"

	if err := h.service.CancelBooking(r.Context(), userID.String(), isAdmin, bookingID); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetClubBookings handles GET /api/admin/clubs/{id}/bookings (admin only)
func (h *BookingHandler) GetClubBookings(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "id")
	if clubID == "" {
		utils.ResponseBadRequest(w, "Club ID is required", nil)
		return
	}

	from, to, err := parseWindowParams(r, "from", "to")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	bookings, err := h.service.GetClubBookings(r.Context(), clubID, from, to)
	if err != nil {
		handleServiceError(w, h.log, err, "get club bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// handleServiceError maps service errors onto HTTP statuses. Conflict and
// expiry are business outcomes with their own codes, not generic failures.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, entity.ErrSlotConflict):
		log.Warn(operation+" failed - slot taken",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, entity.ErrReservationExpired):
		log.Warn(operation+" failed - reservation expired",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseGone(w, err.Error())

	case errors.Is(err, entity.ErrCourtNotFound), errors.Is(err, entity.ErrBookingNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrNotOwner):
		log.Warn(operation+" failed - not owner",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, entity.ErrInvalidTransition):
		log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"):
		log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
