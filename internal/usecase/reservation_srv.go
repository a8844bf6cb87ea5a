package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/internal/event"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	// Reserve places a soft lock on a court/time slot while the user
	// completes payment. A taken slot is ErrSlotConflict, not a retry.
	Reserve(ctx context.Context, userID string, req *request.ReserveRequest) (*response.ReservationResponse, error)

	// ConfirmPayment converts a held reservation according to the charge
	// signal: succeeded moves it to paid, failed records the failure and
	// leaves the hold to run out its TTL.
	ConfirmPayment(ctx context.Context, userID string, req *request.ConfirmBookingRequest) (*response.BookingResponse, error)

	// CreateDirect books a slot straight to paid, for trusted callers.
	CreateDirect(ctx context.Context, req *request.DirectBookingRequest) (*response.BookingResponse, error)

	// CancelBooking sets status=cancelled. Idempotent; rows are never
	// deleted so payment history stays intact.
	CancelBooking(ctx context.Context, requesterID string, isAdmin bool, bookingID string) error

	// ExpireOverdue is the periodic sweep fallback for holds nobody tried
	// to rebook. Returns how many holds were released.
	ExpireOverdue(ctx context.Context) (int, error)

	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetClubBookings(ctx context.Context, clubID string, from, to time.Time) ([]response.BookingResponse, error)
}

type reservationService struct {
	repo    *repository.Repository
	holdTTL time.Duration
	sink    event.Sink
	clock   *event.Clock
	log     *zap.Logger
}

func NewReservationService(repo *repository.Repository, holdTTL time.Duration, sink event.Sink, clock *event.Clock, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:    repo,
		holdTTL: holdTTL,
		sink:    sink,
		clock:   clock,
		log:     log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) Reserve(ctx context.Context, userID string, req *request.ReserveRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reserve validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	courtID, start, end, coachID, err := parseSlot(req.CourtID, req.StartTime, req.EndTime, req.CoachID)
	if err != nil {
		return nil, err
	}

	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reservedAt := now
	expiresAt := now.Add(s.holdTTL)

	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CourtID:              courtID,
		UserID:               userUUID,
		StartTime:            start,
		EndTime:              end,
		Status:               entity.BookingStatusReserved,
		ReservedAt:           &reservedAt,
		ReservationExpiresAt: &expiresAt,
		PriceCents:           slotPriceCents(court.PricePerHourCents, start, end),
		CoachID:              coachID,
	}

	expired, err := s.repo.Booking.CreateIfFree(ctx, booking)
	if err != nil {
		return nil, err
	}

	// Holds released by lazy cleanup still need their cancellation pushed
	// so connected clients free the slot visually.
	s.emitCancelled(ctx, court.ClubID, expired)
	s.emitBooking(event.KindBookingCreated, court.ClubID, booking)

	s.log.Info("Reservation created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("court_id", courtID.String()),
		zap.String("user_id", userID),
		zap.Time("expires_at", expiresAt),
		zap.Int64("price_cents", booking.PriceCents),
	)

	return &response.ReservationResponse{
		ReservationID: booking.ID.String(),
		CourtID:       courtID.String(),
		StartTime:     start,
		EndTime:       end,
		PriceCents:    booking.PriceCents,
		ExpiresAt:     expiresAt,
	}, nil
}

func (s *reservationService) ConfirmPayment(ctx context.Context, userID string, req *request.ConfirmBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Confirm payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	reservationID, err := uuid.Parse(req.ReservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", req.ReservationID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("load reservation: %w", err)
	}
	if booking == nil {
		return nil, entity.ErrBookingNotFound
	}
	if booking.UserID != userUUID {
		return nil, entity.ErrNotOwner
	}

	now := time.Now().UTC()
	switch booking.Status {
	case entity.BookingStatusReserved:
		if !booking.HoldActive(now) {
			return nil, entity.ErrReservationExpired
		}
	case entity.BookingStatusCancelled:
		return nil, entity.ErrReservationExpired
	case entity.BookingStatusPending:
		// direct pending rows may confirm without a hold
	default:
		return nil, entity.ErrInvalidTransition
	}

	court, err := s.loadCourt(ctx, booking.CourtID)
	if err != nil {
		return nil, err
	}

	if req.ChargeStatus == "failed" {
		s.recordPayment(ctx, booking, entity.PaymentStatusFailed, req.Reference)
		s.emitPayment(event.KindPaymentFailed, court.ClubID, booking)

		s.log.Info("Payment failed, hold kept until expiry",
			zap.String("booking_id", booking.ID.String()),
			zap.String("user_id", userID),
		)

		resp := response.BookingToResponse(booking)
		return &resp, nil
	}

	if err := s.repo.Booking.MarkPaid(ctx, booking.ID, now); err != nil {
		// The guarded update lost a race with the sweep: the hold ran out
		// between our read and the write.
		if errors.Is(err, entity.ErrInvalidTransition) && booking.Status == entity.BookingStatusReserved {
			return nil, entity.ErrReservationExpired
		}
		return nil, err
	}

	booking.Status = entity.BookingStatusPaid
	booking.ReservedAt = nil
	booking.ReservationExpiresAt = nil
	booking.UpdatedAt = now

	s.recordPayment(ctx, booking, entity.PaymentStatusConfirmed, req.Reference)
	s.emitBooking(event.KindBookingUpdated, court.ClubID, booking)
	s.emitPayment(event.KindPaymentConfirmed, court.ClubID, booking)

	s.log.Info("Booking paid",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID),
		zap.Int64("price_cents", booking.PriceCents),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) CreateDirect(ctx context.Context, req *request.DirectBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Direct booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", req.UserID, err)
	}

	courtID, start, end, coachID, err := parseSlot(req.CourtID, req.StartTime, req.EndTime, req.CoachID)
	if err != nil {
		return nil, err
	}

	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CourtID:    courtID,
		UserID:     userUUID,
		StartTime:  start,
		EndTime:    end,
		Status:     entity.BookingStatusPaid,
		PriceCents: slotPriceCents(court.PricePerHourCents, start, end),
		CoachID:    coachID,
	}

	// Same guarded transaction as Reserve: a direct booking cannot steal
	// a slot someone else is mid-checkout on.
	expired, err := s.repo.Booking.CreateIfFree(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.emitCancelled(ctx, court.ClubID, expired)
	s.emitBooking(event.KindBookingCreated, court.ClubID, booking)
	s.emitPayment(event.KindPaymentConfirmed, court.ClubID, booking)

	s.log.Info("Direct booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("court_id", courtID.String()),
		zap.String("user_id", req.UserID),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) CancelBooking(ctx context.Context, requesterID string, isAdmin bool, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return entity.ErrBookingNotFound
	}

	if !isAdmin && booking.UserID.String() != requesterID {
		return entity.ErrNotOwner
	}

	now := time.Now().UTC()
	changed, err := s.repo.Booking.Cancel(ctx, id, now)
	if err != nil {
		return err
	}
	if !changed {
		// already cancelled
		return nil
	}

	booking.Status = entity.BookingStatusCancelled
	booking.ReservedAt = nil
	booking.ReservationExpiresAt = nil
	booking.UpdatedAt = now

	court, err := s.loadCourt(ctx, booking.CourtID)
	if err != nil {
		return err
	}
	s.emitBooking(event.KindBookingCancelled, court.ClubID, booking)

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("requester_id", requesterID),
	)

	return nil
}

func (s *reservationService) ExpireOverdue(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	expired, err := s.repo.Booking.CancelExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("expire overdue holds: %w", err)
	}

	for _, booking := range expired {
		court, err := s.loadCourt(ctx, booking.CourtID)
		if err != nil {
			s.log.Error("Failed to resolve club for expired hold",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			continue
		}
		s.emitBooking(event.KindBookingCancelled, court.ClubID, booking)
	}

	if len(expired) > 0 {
		s.log.Info("Expired holds released", zap.Int("count", len(expired)))
	}

	return len(expired), nil
}

func (s *reservationService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *reservationService) GetClubBookings(ctx context.Context, clubID string, from, to time.Time) ([]response.BookingResponse, error) {
	clubUUID, err := uuid.Parse(clubID)
	if err != nil {
		return nil, fmt.Errorf("invalid club ID format %s: %w", clubID, err)
	}

	if err := ValidateWindow(from, to); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	bookings, err := s.repo.Booking.FindByClubAndRange(ctx, clubUUID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get club bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return bookingResponses, nil
}

// ==================== HELPER METHODS ====================

func parseSlot(courtID, startTime, endTime, coachID string) (uuid.UUID, time.Time, time.Time, *uuid.UUID, error) {
	courtUUID, err := uuid.Parse(courtID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, nil, fmt.Errorf("invalid court ID format %s: %w", courtID, err)
	}

	start, err := time.Parse(time.RFC3339, startTime)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, nil, fmt.Errorf("invalid start time %s: %w", startTime, err)
	}

	end, err := time.Parse(time.RFC3339, endTime)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, nil, fmt.Errorf("invalid end time %s: %w", endTime, err)
	}

	start = start.UTC()
	end = end.UTC()
	if err := ValidateWindow(start, end); err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, nil, fmt.Errorf("validation failed: %w", err)
	}

	var coach *uuid.UUID
	if coachID != "" {
		coachUUID, err := uuid.Parse(coachID)
		if err != nil {
			return uuid.Nil, time.Time{}, time.Time{}, nil, fmt.Errorf("invalid coach ID format %s: %w", coachID, err)
		}
		coach = &coachUUID
	}

	return courtUUID, start, end, coach, nil
}

func slotPriceCents(pricePerHourCents int64, start, end time.Time) int64 {
	minutes := int64(end.Sub(start) / time.Minute)
	return pricePerHourCents * minutes / 60
}

func (s *reservationService) loadCourt(ctx context.Context, courtID uuid.UUID) (*entity.Court, error) {
	court, err := s.repo.Court.FindByID(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("check court: %w", err)
	}
	if court == nil || !court.IsActive {
		return nil, entity.ErrCourtNotFound
	}
	return court, nil
}

func (s *reservationService) recordPayment(ctx context.Context, booking *entity.Booking, status entity.PaymentStatus, reference string) {
	payment := &entity.Payment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		BookingID:   booking.ID,
		AmountCents: booking.PriceCents,
		Status:      status,
	}
	if reference != "" {
		payment.Reference = &reference
	}

	// Audit trail only; the booking transition has already committed.
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		s.log.Error("Failed to record payment",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}

func (s *reservationService) emitBooking(kind event.Kind, clubID uuid.UUID, booking *entity.Booking) {
	s.sink.Emit(event.Event{
		ID:         uuid.New(),
		Kind:       kind,
		ClubID:     clubID,
		OccurredAt: s.clock.Now(),
		Booking: &event.BookingPayload{
			ID:         booking.ID,
			CourtID:    booking.CourtID,
			UserID:     booking.UserID,
			StartTime:  booking.StartTime,
			EndTime:    booking.EndTime,
			Status:     string(booking.Status),
			PriceCents: booking.PriceCents,
		},
	})
}

func (s *reservationService) emitPayment(kind event.Kind, clubID uuid.UUID, booking *entity.Booking) {
	s.sink.Emit(event.Event{
		ID:         uuid.New(),
		Kind:       kind,
		ClubID:     clubID,
		OccurredAt: s.clock.Now(),
		Payment: &event.PaymentPayload{
			BookingID:   booking.ID,
			UserID:      booking.UserID,
			AmountCents: booking.PriceCents,
		},
	})
}

func (s *reservationService) emitCancelled(ctx context.Context, clubID uuid.UUID, bookingIDs []uuid.UUID) {
	for _, id := range bookingIDs {
		booking, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil || booking == nil {
			s.log.Warn("Could not load lazily expired hold for event",
				zap.String("booking_id", id.String()),
			)
			continue
		}
		s.emitBooking(event.KindBookingCancelled, clubID, booking)
	}
}
