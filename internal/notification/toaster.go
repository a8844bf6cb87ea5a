package notification

import (
	"fmt"
	"sync"
	"time"

	"court-booking/internal/event"

	"go.uber.org/zap"
)

// Toast is an ephemeral user-facing message. Toasts are never persisted;
// a missed toast is gone.
type Toast struct {
	Kind    event.Kind `json:"kind"`
	Message string     `json:"message"`
	ShownAt time.Time  `json:"shown_at"`
}

// ToastWriter receives rendered toasts, typically the hub-side push for a
// single UI session.
type ToastWriter interface {
	ShowToast(t Toast)
}

// Toaster renders events into short-lived messages. Duplicate events for
// the same kind and booking inside the dedupe window produce one toast.
type Toaster struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
	out    ToastWriter
	now    func() time.Time
	log    *zap.Logger
}

func NewToaster(window time.Duration, out ToastWriter, log *zap.Logger) *Toaster {
	return &Toaster{
		window: window,
		seen:   make(map[string]time.Time),
		out:    out,
		now:    time.Now,
		log:    log.With(zap.String("component", "toaster")),
	}
}

func (t *Toaster) Emit(ev event.Event) {
	if err := ev.Validate(); err != nil {
		t.log.Warn("Dropping malformed event", zap.Error(err))
		return
	}

	msg := renderToast(ev)
	if msg == "" {
		return
	}

	key := dedupeKey(ev)
	now := t.now().UTC()

	t.mu.Lock()
	if last, ok := t.seen[key]; ok && now.Sub(last) < t.window {
		t.mu.Unlock()
		return
	}
	t.seen[key] = now
	// Drop entries old enough that they can no longer suppress anything.
	for k, shown := range t.seen {
		if now.Sub(shown) >= t.window {
			delete(t.seen, k)
		}
	}
	t.mu.Unlock()

	t.out.ShowToast(Toast{Kind: ev.Kind, Message: msg, ShownAt: now})
}

func dedupeKey(ev event.Event) string {
	switch {
	case ev.Booking != nil:
		return string(ev.Kind) + ":" + ev.Booking.ID.String()
	case ev.Payment != nil:
		return string(ev.Kind) + ":" + ev.Payment.BookingID.String()
	default:
		return string(ev.Kind) + ":" + ev.ID.String()
	}
}

func renderToast(ev event.Event) string {
	switch ev.Kind {
	case event.KindBookingCreated:
		return "Booking confirmed for your court slot."
	case event.KindBookingUpdated:
		return "Your booking was updated."
	case event.KindBookingCancelled:
		return "A booking was cancelled."
	case event.KindPaymentConfirmed:
		return fmt.Sprintf("Payment of %s received.", formatCents(ev.Payment.AmountCents))
	case event.KindPaymentFailed:
		return "Payment failed. Your reservation is still held for a short time."
	default:
		return ""
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// LogWriter is the default server-side toast sink. UI transports replace it
// with a session-bound writer; on the server the toast stream is only
// observable in logs.
type LogWriter struct {
	Log *zap.Logger
}

func (w LogWriter) ShowToast(t Toast) {
	w.Log.Debug("Toast shown",
		zap.String("kind", string(t.Kind)),
		zap.String("message", t.Message),
	)
}
