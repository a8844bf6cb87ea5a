package realtime

import (
	"testing"
	"time"

	"court-booking/internal/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func bookingEvent(kind event.Kind, clubID, bookingID uuid.UUID, occurredAt time.Time, status string) event.Event {
	return event.Event{
		ID:         uuid.New(),
		Kind:       kind,
		ClubID:     clubID,
		OccurredAt: occurredAt,
		Booking: &event.BookingPayload{
			ID:         bookingID,
			CourtID:    uuid.New(),
			UserID:     uuid.New(),
			StartTime:  occurredAt.Add(24 * time.Hour),
			EndTime:    occurredAt.Add(25 * time.Hour),
			Status:     status,
			PriceCents: 5000,
		},
	}
}

func TestStateSyncAppliesLifecycle(t *testing.T) {
	sync := NewStateSync(uuid.Nil, nil, zap.NewNop())
	clubID := uuid.New()
	bookingID := uuid.New()
	base := time.Now().UTC()

	require.True(t, sync.Apply(bookingEvent(event.KindBookingCreated, clubID, bookingID, base, "reserved")))
	view, ok := sync.Get(bookingID)
	require.True(t, ok)
	assert.Equal(t, "reserved", view.Status)

	require.True(t, sync.Apply(bookingEvent(event.KindBookingUpdated, clubID, bookingID, base.Add(time.Second), "paid")))
	view, _ = sync.Get(bookingID)
	assert.Equal(t, "paid", view.Status)

	require.True(t, sync.Apply(bookingEvent(event.KindBookingCancelled, clubID, bookingID, base.Add(2*time.Second), "cancelled")))
	_, ok = sync.Get(bookingID)
	assert.False(t, ok)
}

func TestStateSyncDropsStaleAndDuplicate(t *testing.T) {
	sync := NewStateSync(uuid.Nil, nil, zap.NewNop())
	clubID := uuid.New()
	bookingID := uuid.New()
	base := time.Now().UTC()

	newer := bookingEvent(event.KindBookingUpdated, clubID, bookingID, base.Add(time.Second), "paid")
	require.True(t, sync.Apply(newer))

	// an older event arriving late must not overwrite the newer state
	older := bookingEvent(event.KindBookingCreated, clubID, bookingID, base, "reserved")
	assert.False(t, sync.Apply(older))
	view, _ := sync.Get(bookingID)
	assert.Equal(t, "paid", view.Status)

	// replaying the same event is a no-op
	assert.False(t, sync.Apply(newer))
}

func TestStateSyncCancelledStaysGone(t *testing.T) {
	sync := NewStateSync(uuid.Nil, nil, zap.NewNop())
	clubID := uuid.New()
	bookingID := uuid.New()
	base := time.Now().UTC()

	require.True(t, sync.Apply(bookingEvent(event.KindBookingCancelled, clubID, bookingID, base.Add(time.Minute), "cancelled")))

	// a late update from before the cancellation cannot resurrect the row
	assert.False(t, sync.Apply(bookingEvent(event.KindBookingUpdated, clubID, bookingID, base, "paid")))
	_, ok := sync.Get(bookingID)
	assert.False(t, ok)
}

func TestStateSyncCancelBeforeCreateIsFine(t *testing.T) {
	sync := NewStateSync(uuid.Nil, nil, zap.NewNop())
	clubID := uuid.New()
	bookingID := uuid.New()

	assert.True(t, sync.Apply(bookingEvent(event.KindBookingCancelled, clubID, bookingID, time.Now().UTC(), "cancelled")))
	assert.Empty(t, sync.Snapshot())
}

func TestStateSyncClubFilter(t *testing.T) {
	clubID := uuid.New()
	sync := NewStateSync(clubID, nil, zap.NewNop())
	base := time.Now().UTC()

	mine := bookingEvent(event.KindBookingCreated, clubID, uuid.New(), base, "reserved")
	other := bookingEvent(event.KindBookingCreated, uuid.New(), uuid.New(), base, "reserved")

	assert.True(t, sync.Apply(mine))
	assert.False(t, sync.Apply(other))
	assert.Len(t, sync.Snapshot(), 1)
}

func TestStateSyncDropsMalformed(t *testing.T) {
	sync := NewStateSync(uuid.Nil, nil, zap.NewNop())

	malformed := bookingEvent(event.KindBookingCreated, uuid.New(), uuid.New(), time.Now().UTC(), "reserved")
	malformed.ClubID = uuid.Nil

	assert.False(t, sync.Apply(malformed))
	assert.Empty(t, sync.Snapshot())
}

func TestStateSyncRefetchFillsDisplayFields(t *testing.T) {
	bookingID := uuid.New()
	refetch := func(id uuid.UUID) (*BookingView, bool) {
		if id != bookingID {
			return nil, false
		}
		return &BookingView{ID: id, CourtName: "Center Court", UserName: "A. Player"}, true
	}

	sync := NewStateSync(uuid.Nil, refetch, zap.NewNop())
	ev := bookingEvent(event.KindBookingUpdated, uuid.New(), bookingID, time.Now().UTC(), "paid")
	require.True(t, sync.Apply(ev))

	view, ok := sync.Get(bookingID)
	require.True(t, ok)
	assert.Equal(t, "Center Court", view.CourtName)
	assert.Equal(t, "A. Player", view.UserName)
	assert.Equal(t, "paid", view.Status)
}

func TestStateSyncResyncReplacesState(t *testing.T) {
	sync := NewStateSync(uuid.Nil, nil, zap.NewNop())
	base := time.Now().UTC()

	stale := bookingEvent(event.KindBookingCreated, uuid.New(), uuid.New(), base, "reserved")
	require.True(t, sync.Apply(stale))

	fresh := BookingView{ID: uuid.New(), Status: "paid"}
	sync.Resync([]BookingView{fresh}, base.Add(time.Minute))

	snapshot := sync.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, fresh.ID, snapshot[0].ID)
}
