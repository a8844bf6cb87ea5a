package sweeper

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/usecase"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Sweeper periodically releases reservation holds whose TTL ran out without
// anyone trying to rebook the slot. Expiry is also enforced lazily inside
// booking transactions; the sweep is the fallback that keeps calendars and
// connected clients honest on quiet courts.
type Sweeper struct {
	scheduler gocron.Scheduler
	log       *zap.Logger
}

func New(interval time.Duration, reservations usecase.ReservationService, log *zap.Logger) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	log = log.With(zap.String("component", "sweeper"))

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			count, err := reservations.ExpireOverdue(ctx)
			if err != nil {
				log.Error("Sweep failed", zap.Error(err))
				return
			}
			if count > 0 {
				log.Info("Sweep released expired holds", zap.Int("count", count))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("register sweep job: %w", err)
	}

	return &Sweeper{scheduler: scheduler, log: log}, nil
}

func (s *Sweeper) Start() {
	s.scheduler.Start()
	s.log.Info("Sweeper started")
}

func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
