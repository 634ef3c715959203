package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Refresher refetches observed cache entries whose freshness has run out.
type Refresher interface {
	RefetchStale(ctx context.Context) int
}

type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

func NewScheduler(refresher Refresher, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
		timeout:   interval,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start runs until ctx is done. Entries left stale by a failed refetch are
// retried on the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runRefresh(ctx)
		}
	}
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if n := s.refresher.RefetchStale(refreshCtx); n > 0 {
		s.logger.Debug("refetched stale entries", "count", n)
	}
}
