package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Cycle is one full scrape of a portal, run repeatedly by the scheduler.
type Cycle func(ctx context.Context) error

// Scheduler re-runs a scrape cycle on a fixed interval, starting with one
// immediate cycle.
type Scheduler struct {
	cycle    Cycle
	interval time.Duration
	logger   *slog.Logger
}

func New(cycle Cycle, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cycle:    cycle,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. A failed cycle is logged and the loop keeps going;
// Run returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.cycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("scrape cycle failed", "error", err)
	}
}
