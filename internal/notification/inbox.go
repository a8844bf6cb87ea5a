package notification

import (
	"context"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/event"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Inbox persists notifications for the kinds a user must be able to act on
// later. Booking lifecycle noise stays out; adding a kind here is a
// deliberate wiring decision, not a default.
type Inbox struct {
	repo repository.NotificationRepository
	log  *zap.Logger
}

func NewInbox(repo repository.NotificationRepository, log *zap.Logger) *Inbox {
	return &Inbox{
		repo: repo,
		log:  log.With(zap.String("component", "inbox")),
	}
}

func (i *Inbox) Emit(ev event.Event) {
	msg, userID, ok := renderInbox(ev)
	if !ok {
		return
	}

	n := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		UserID:  userID,
		EventID: ev.ID,
		Kind:    string(ev.Kind),
		Message: msg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inserted, err := i.repo.Insert(ctx, n)
	if err != nil {
		i.log.Error("Failed to persist notification",
			zap.Error(err),
			zap.String("event_id", ev.ID.String()),
		)
		return
	}
	if !inserted {
		// same event delivered twice; the unique index already holds it
		return
	}

	i.log.Debug("Notification stored",
		zap.String("event_id", ev.ID.String()),
		zap.String("user_id", userID.String()),
	)
}

func renderInbox(ev event.Event) (string, uuid.UUID, bool) {
	if ev.Payment == nil {
		return "", uuid.Nil, false
	}
	switch ev.Kind {
	case event.KindPaymentConfirmed:
		return "Your payment of " + formatCents(ev.Payment.AmountCents) + " was confirmed.", ev.Payment.UserID, true
	case event.KindPaymentFailed:
		return "Your payment could not be processed. Please try again.", ev.Payment.UserID, true
	default:
		return "", uuid.Nil, false
	}
}
