package usecase

import (
	"context"
	"sync"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/event"

	"github.com/google/uuid"
)

// fakeBookingRepo keeps bookings in memory and mirrors the transactional
// contract of the real repository: insert fails on active overlap, expired
// holds cancel lazily on the way in.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	now      func() time.Time

	markPaidErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*entity.Booking),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) FindByClubAndRange(_ context.Context, clubID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) CreateIfFree(_ context.Context, booking *entity.Booking) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	var expired []uuid.UUID
	for _, b := range f.bookings {
		if b.CourtID == booking.CourtID && b.Status == entity.BookingStatusReserved && !b.HoldActive(now) {
			b.Status = entity.BookingStatusCancelled
			expired = append(expired, b.ID)
		}
	}

	for _, b := range f.bookings {
		if b.CourtID == booking.CourtID && b.Blocks(now) &&
			Overlaps(b.StartTime, b.EndTime, booking.StartTime, booking.EndTime) {
			return nil, entity.ErrSlotConflict
		}
	}

	copied := *booking
	f.bookings[booking.ID] = &copied
	return expired, nil
}

func (f *fakeBookingRepo) HasActiveOverlap(_ context.Context, _ repository.Querier, courtID, excludeID uuid.UUID, start, end, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == excludeID || b.CourtID != courtID {
			continue
		}
		if b.Blocks(now) && Overlaps(b.StartTime, b.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) MarkPaid(_ context.Context, id uuid.UUID, now time.Time) error {
	if f.markPaidErr != nil {
		return f.markPaidErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return entity.ErrBookingNotFound
	}
	if b.Status != entity.BookingStatusPending && !(b.Status == entity.BookingStatusReserved && b.HoldActive(now)) {
		return entity.ErrInvalidTransition
	}
	b.Status = entity.BookingStatusPaid
	b.ReservedAt = nil
	b.ReservationExpiresAt = nil
	b.UpdatedAt = now
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return false, entity.ErrBookingNotFound
	}
	if b.Status == entity.BookingStatusCancelled {
		return false, nil
	}
	b.Status = entity.BookingStatusCancelled
	b.ReservedAt = nil
	b.ReservationExpiresAt = nil
	b.UpdatedAt = now
	return true, nil
}

func (f *fakeBookingRepo) CancelExpired(_ context.Context, now time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status == entity.BookingStatusReserved && !b.HoldActive(now) {
			b.Status = entity.BookingStatusCancelled
			b.ReservedAt = nil
			b.ReservationExpiresAt = nil
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeCourtRepo struct {
	courts map[uuid.UUID]*entity.Court
}

func newFakeCourtRepo(courts ...*entity.Court) *fakeCourtRepo {
	f := &fakeCourtRepo{courts: make(map[uuid.UUID]*entity.Court)}
	for _, c := range courts {
		f.courts[c.ID] = c
	}
	return f
}

func (f *fakeCourtRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Court, error) {
	if c, ok := f.courts[id]; ok {
		return c, nil
	}
	return nil, nil
}

func (f *fakeCourtRepo) ListByClub(_ context.Context, clubID uuid.UUID) ([]*entity.Court, error) {
	var out []*entity.Court
	for _, c := range f.courts {
		if c.ClubID == clubID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*entity.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *payment
	f.payments = append(f.payments, &copied)
	return nil
}

func (f *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.payments) - 1; i >= 0; i-- {
		if f.payments[i].BookingID == bookingID {
			copied := *f.payments[i]
			return &copied, nil
		}
	}
	return nil, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (s *recordingSink) Emit(ev event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) kinds() []event.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]event.Kind, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Kind
	}
	return out
}
