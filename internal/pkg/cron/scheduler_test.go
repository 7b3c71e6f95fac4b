package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler()
	s.AddJob("count", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_IgnoresNonPositiveInterval(t *testing.T) {
	s := NewScheduler()
	s.AddJob("never", 0, func(ctx context.Context) error { return nil })
	assert.Empty(t, s.jobs)
}

func TestScheduler_RunOnceContinuesAfterFailure(t *testing.T) {
	var order []string
	s := NewScheduler()
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		order = append(order, "first")
		return errors.New("boom")
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler()
	assert.NotPanics(t, s.Stop)
}

type fakeSweeper struct {
	idle time.Duration
	err  error
}

func (f *fakeSweeper) SweepIdle(ctx context.Context, idle time.Duration) error {
	f.idle = idle
	return f.err
}

type fakePurger struct{ calls int }

func (f *fakePurger) Purge() int {
	f.calls++
	return 1
}

func TestSessionJobs(t *testing.T) {
	drafts := &fakeSweeper{}
	sessions := &fakeSweeper{}
	cache := &fakePurger{}

	jobs := NewSessionJobs(cache, 30*time.Minute, drafts, sessions)
	s := NewScheduler()
	jobs.RegisterJobs(s, time.Minute)
	require.Len(t, s.jobs, 2)

	s.RunOnce(context.Background())
	assert.Equal(t, 30*time.Minute, drafts.idle)
	assert.Equal(t, 30*time.Minute, sessions.idle)
	assert.Equal(t, 1, cache.calls)
}

func TestSessionJobs_SweepError(t *testing.T) {
	failing := &fakeSweeper{err: errors.New("locked")}
	after := &fakeSweeper{}

	jobs := NewSessionJobs(nil, time.Minute, failing, after)
	assert.Error(t, jobs.SweepIdleSessions(context.Background()))
	assert.Zero(t, after.idle)
	assert.NoError(t, jobs.PurgeExpiredCache(context.Background()))
}
