package dashboard

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically evicts idle controllers from a Registry.
type Sweeper struct {
	Registry *Registry
	Interval time.Duration
	// IdleAfter defaults to Interval.
	IdleAfter time.Duration
	Logger    *slog.Logger
}

func (s *Sweeper) Run(ctx context.Context) {
	if s.Registry == nil || s.Interval <= 0 {
		return
	}
	idle := s.IdleAfter
	if idle <= 0 {
		idle = s.Interval
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Registry.Sweep(idle); n > 0 {
				logger.Debug("swept idle dashboards", "removed", n, "remaining", s.Registry.Len())
			}
		}
	}
}
