package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	// IsFree reports whether the court is bookable for [start, end). This
	// is the advisory read path; the authoritative check re-runs inside
	// the booking transaction.
	IsFree(ctx context.Context, courtID string, start, end time.Time) (bool, error)
}

type availabilityService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		log:  log.With(zap.String("service", "availability")),
	}
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidateWindow rejects empty or inverted time ranges.
func ValidateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start and end times are required")
	}
	if !start.Before(end) {
		return fmt.Errorf("start time %s must be before end time %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func (s *availabilityService) IsFree(ctx context.Context, courtID string, start, end time.Time) (bool, error) {
	courtUUID, err := uuid.Parse(courtID)
	if err != nil {
		return false, fmt.Errorf("invalid court ID format %s: %w", courtID, err)
	}

	if err := ValidateWindow(start, end); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	court, err := s.repo.Court.FindByID(ctx, courtUUID)
	if err != nil {
		return false, fmt.Errorf("check court: %w", err)
	}
	if court == nil || !court.IsActive {
		return false, entity.ErrCourtNotFound
	}

	conflict, err := s.repo.Booking.HasActiveOverlap(ctx, nil, courtUUID, uuid.Nil, start, end, time.Now().UTC())
	if err != nil {
		s.log.Error("Failed to check availability",
			zap.Error(err),
			zap.String("court_id", courtID),
		)
		return false, fmt.Errorf("check availability: %w", err)
	}

	return !conflict, nil
}
