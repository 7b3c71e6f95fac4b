package cron

import (
	"context"
	"log/slog"
	"time"
)

// IdleSweeper drops in-memory state that has not been touched for a while.
type IdleSweeper interface {
	SweepIdle(ctx context.Context, idle time.Duration) error
}

// CachePurger drops expired cache entries and reports how many it removed.
type CachePurger interface {
	Purge() int
}

// SessionJobs keeps the per-user drafts and the read cache from growing
// without bound.
type SessionJobs struct {
	sweepers    []IdleSweeper
	cache       CachePurger
	idleTimeout time.Duration
}

func NewSessionJobs(cache CachePurger, idleTimeout time.Duration, sweepers ...IdleSweeper) *SessionJobs {
	return &SessionJobs{
		sweepers:    sweepers,
		cache:       cache,
		idleTimeout: idleTimeout,
	}
}

// RegisterJobs registers the sweep jobs on scheduler
func (j *SessionJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("sweep_idle_sessions", interval, j.SweepIdleSessions)
	scheduler.AddJob("purge_expired_cache", interval, j.PurgeExpiredCache)
}

func (j *SessionJobs) SweepIdleSessions(ctx context.Context) error {
	for _, s := range j.sweepers {
		if err := s.SweepIdle(ctx, j.idleTimeout); err != nil {
			return err
		}
	}
	return nil
}

func (j *SessionJobs) PurgeExpiredCache(ctx context.Context) error {
	if j.cache == nil {
		return nil
	}
	if removed := j.cache.Purge(); removed > 0 {
		slog.Debug("Expired cache entries removed", "count", removed)
	}
	return nil
}
