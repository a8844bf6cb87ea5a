package notification

import (
	"sync"
	"testing"
	"time"

	"court-booking/internal/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingToastWriter struct {
	mu     sync.Mutex
	toasts []Toast
}

func (w *recordingToastWriter) ShowToast(t Toast) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.toasts = append(w.toasts, t)
}

func (w *recordingToastWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.toasts)
}

func paymentEvent(kind event.Kind, bookingID uuid.UUID) event.Event {
	return event.Event{
		ID:         uuid.New(),
		Kind:       kind,
		ClubID:     uuid.New(),
		OccurredAt: time.Now().UTC(),
		Payment: &event.PaymentPayload{
			BookingID:   bookingID,
			UserID:      uuid.New(),
			AmountCents: 4550,
		},
	}
}

func TestToasterShowsMessage(t *testing.T) {
	writer := &recordingToastWriter{}
	toaster := NewToaster(5*time.Second, writer, zap.NewNop())

	toaster.Emit(paymentEvent(event.KindPaymentConfirmed, uuid.New()))

	require.Equal(t, 1, writer.count())
	assert.Contains(t, writer.toasts[0].Message, "$45.50")
}

func TestToasterDedupesWithinWindow(t *testing.T) {
	writer := &recordingToastWriter{}
	toaster := NewToaster(5*time.Second, writer, zap.NewNop())

	now := time.Now().UTC()
	toaster.now = func() time.Time { return now }

	bookingID := uuid.New()
	toaster.Emit(paymentEvent(event.KindPaymentConfirmed, bookingID))
	toaster.Emit(paymentEvent(event.KindPaymentConfirmed, bookingID))
	assert.Equal(t, 1, writer.count(), "same kind and booking inside the window shows once")

	// a different kind for the same booking is not a duplicate
	toaster.Emit(paymentEvent(event.KindPaymentFailed, bookingID))
	assert.Equal(t, 2, writer.count())

	// once the window passes, the same toast may show again
	toaster.now = func() time.Time { return now.Add(6 * time.Second) }
	toaster.Emit(paymentEvent(event.KindPaymentConfirmed, bookingID))
	assert.Equal(t, 3, writer.count())
}

func TestToasterDistinctBookingsNotDeduped(t *testing.T) {
	writer := &recordingToastWriter{}
	toaster := NewToaster(5*time.Second, writer, zap.NewNop())

	toaster.Emit(paymentEvent(event.KindPaymentConfirmed, uuid.New()))
	toaster.Emit(paymentEvent(event.KindPaymentConfirmed, uuid.New()))

	assert.Equal(t, 2, writer.count())
}

func TestToasterDropsMalformedEvent(t *testing.T) {
	writer := &recordingToastWriter{}
	toaster := NewToaster(5*time.Second, writer, zap.NewNop())

	// a payment kind with no payment payload must be dropped, not panic
	malformed := paymentEvent(event.KindPaymentConfirmed, uuid.New())
	malformed.Payment = nil
	toaster.Emit(malformed)

	noClub := paymentEvent(event.KindPaymentFailed, uuid.New())
	noClub.ClubID = uuid.Nil
	toaster.Emit(noClub)

	assert.Zero(t, writer.count())
}
