package adaptor

import (
	"court-booking/internal/realtime"
	"court-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking      *BookingHandler
	Court        *CourtHandler
	Notification *NotificationHandler
	Realtime     *RealtimeHandler
}

func NewHandler(service *usecase.Service, hub *realtime.Hub, authn *realtime.Authenticator, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Reservation, log),
		Court:        NewCourtHandler(service.Availability, service.Reservation, log),
		Notification: NewNotificationHandler(service.Notification, log),
		Realtime:     NewRealtimeHandler(hub, authn, log),
	}
}
