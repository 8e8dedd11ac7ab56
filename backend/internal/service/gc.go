package service

import (
	"context"
	"sync"
	"time"

	"github.com/aljannat-dev/aljannat/shared/logger"
)

// CodeSweeper purges one-time codes that are past their validity window.
// Expired codes never match anyway; this only keeps the ledger small.
type CodeSweeper struct {
	storage SweeperStorage
	ttl     time.Duration
	now     func() time.Time

	mu             sync.Mutex
	lastSweepStats SweepStats
}

// SweepStats describes the last sweep run.
type SweepStats struct {
	RunAt        time.Time
	CodesDeleted int64
	DurationMs   int64
	Err          error
}

type SweeperStorage interface {
	DeleteCodesCreatedBefore(ctx context.Context, before time.Time) (int64, error)
}

func NewCodeSweeper(storage SweeperStorage, ttl time.Duration) *CodeSweeper {
	return &CodeSweeper{
		storage: storage,
		ttl:     ttl,
		now:     time.Now,
	}
}

// StartBackgroundSweep runs RunSweep every interval until ctx is cancelled.
func (s *CodeSweeper) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started otp sweeper", "interval", interval, "ttl", s.ttl)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.RunSweep(ctx); err != nil {
					logger.Log.Error("otp sweep failed", "error", err)
					continue
				}
				stats := s.LastSweepStats()
				if stats.CodesDeleted > 0 {
					logger.Log.Info("otp sweep completed", "deleted", stats.CodesDeleted, "duration_ms", stats.DurationMs)
				}
			case <-ctx.Done():
				logger.Log.Info("otp sweeper shutting down")
				return
			}
		}
	}()
}

// RunSweep executes a single cycle. It can be called directly for maintenance.
func (s *CodeSweeper) RunSweep(ctx context.Context) error {
	start := s.now()
	deleted, err := s.storage.DeleteCodesCreatedBefore(ctx, start.Add(-s.ttl))

	s.mu.Lock()
	s.lastSweepStats = SweepStats{
		RunAt:        start,
		CodesDeleted: deleted,
		DurationMs:   time.Since(start).Milliseconds(),
		Err:          err,
	}
	s.mu.Unlock()

	return err
}

func (s *CodeSweeper) LastSweepStats() SweepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSweepStats
}
