package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingReservationService struct {
	sweeps atomic.Int64
}

func (s *countingReservationService) ExpireOverdue(ctx context.Context) (int, error) {
	s.sweeps.Add(1)
	return 0, nil
}

func (s *countingReservationService) Reserve(ctx context.Context, userID string, req *request.ReserveRequest) (*response.ReservationResponse, error) {
	return nil, nil
}

func (s *countingReservationService) ConfirmPayment(ctx context.Context, userID string, req *request.ConfirmBookingRequest) (*response.BookingResponse, error) {
	return nil, nil
}

func (s *countingReservationService) CreateDirect(ctx context.Context, req *request.DirectBookingRequest) (*response.BookingResponse, error) {
	return nil, nil
}

func (s *countingReservationService) CancelBooking(ctx context.Context, requesterID string, isAdmin bool, bookingID string) error {
	return nil
}

func (s *countingReservationService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	return nil, nil
}

func (s *countingReservationService) GetClubBookings(ctx context.Context, clubID string, from, to time.Time) ([]response.BookingResponse, error) {
	return nil, nil
}

func TestSweeperTicks(t *testing.T) {
	service := &countingReservationService{}

	sweep, err := New(20*time.Millisecond, service, zap.NewNop())
	require.NoError(t, err)

	sweep.Start()
	defer sweep.Stop()

	assert.Eventually(t, func() bool {
		return service.sweeps.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSweeperStops(t *testing.T) {
	service := &countingReservationService{}

	sweep, err := New(10*time.Millisecond, service, zap.NewNop())
	require.NoError(t, err)

	sweep.Start()
	assert.Eventually(t, func() bool {
		return service.sweeps.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, sweep.Stop())
	after := service.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, service.sweeps.Load())
}
