package usecase

import (
	"court-booking/internal/data/repository"
	"court-booking/internal/event"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Reservation  ReservationService
	Availability AvailabilityService
	Notification NotificationService
}

func NewService(repo *repository.Repository, config *utils.Config, sink event.Sink, clock *event.Clock, log *zap.Logger) *Service {
	return &Service{
		Reservation:  NewReservationService(repo, config.Reservation.HoldTTL, sink, clock, log),
		Availability: NewAvailabilityService(repo, log),
		Notification: NewNotificationService(repo, log),
	}
}
