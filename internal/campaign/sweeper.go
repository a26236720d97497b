// AngelaMos | 2026
// sweeper.go

package campaign

import (
	"context"
	"log/slog"
	"time"
)

const sweepLockKey = "chaama:campaigns:sweep"

// Locker hands out a lease so only one replica sweeps at a time.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context), bool, error)
}

type Sweeper struct {
	service  *Service
	locker   Locker
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper builds the periodic expiry job. locker may be nil for a single
// replica.
func NewSweeper(
	service *Service,
	locker Locker,
	interval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		service:  service,
		locker:   locker,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweepAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepAndLog(ctx)
		}
	}
}

func (s *Sweeper) sweepAndLog(ctx context.Context) {
	if _, _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("campaign sweep failed", "error", err)
	}
}

// SweepOnce expires due campaigns unless another replica holds the sweep
// lease, in which case it reports skipped.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, bool, error) {
	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, sweepLockKey, s.lease())
		if err != nil {
			s.logger.Warn("sweep lock unavailable, sweeping anyway", "error", err)
		} else if !ok {
			s.logger.Debug("campaign sweep held by another replica")
			return 0, true, nil
		} else {
			defer release(context.WithoutCancel(ctx))
		}
	}

	n, err := s.service.ExpireDue(ctx)
	if err != nil {
		return 0, false, err
	}

	if n > 0 {
		s.logger.Info("campaigns expired", "count", n)
	}
	return n, false, nil
}

func (s *Sweeper) lease() time.Duration {
	lease := s.interval / 2
	if lease < time.Minute {
		lease = time.Minute
	}
	return lease
}
