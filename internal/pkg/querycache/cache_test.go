package querycache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(ttl time.Duration) (*Cache, *clock) {
	clk := &clock{t: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)}
	c := New(ttl)
	c.now = clk.now
	return c, clk
}

func counter(value *int) func(context.Context) (int, error) {
	return func(context.Context) (int, error) {
		*value++
		return *value, nil
	}
}

func TestFetch_CachesUntilExpiry(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(time.Minute)
	calls := 0

	v, err := Fetch(ctx, c, "k", counter(&calls))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, _ = Fetch(ctx, c, "k", counter(&calls))
	assert.Equal(t, 1, v)

	clk.t = clk.t.Add(time.Minute)
	v, _ = Fetch(ctx, c, "k", counter(&calls))
	assert.Equal(t, 2, v)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(time.Minute)
	boom := errors.New("boom")

	_, err := Fetch(ctx, c, "k", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestInvalidate_ByPrefix(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(time.Minute)
	calls := 0

	_, _ = Fetch(ctx, c, EmployeeSalariesKey("E1", 2024, 6), counter(&calls))
	_, _ = Fetch(ctx, c, EmployeeSalariesKey("E1", 2024, 7), counter(&calls))
	_, _ = Fetch(ctx, c, LeaveBalanceKey("E1"), counter(&calls))
	require.Equal(t, 3, c.Len())

	c.Invalidate(EmployeeSalariesPrefix("E1"))
	assert.Equal(t, 1, c.Len())

	v, _ := Fetch(ctx, c, EmployeeSalariesKey("E1", 2024, 6), counter(&calls))
	assert.Equal(t, 4, v)
}

func TestFetch_StaleFetchIsNotStored(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(time.Minute)

	v, err := Fetch(ctx, c, "k", func(context.Context) (string, error) {
		c.Invalidate("k")
		return "stale", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", v)
	assert.Equal(t, 0, c.Len())
}

func TestFetch_UnrelatedInvalidationStillStores(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(time.Minute)
	key := EmployeeSalariesKey("E1", 2024, 6)

	_, err := Fetch(ctx, c, key, func(context.Context) (string, error) {
		c.Invalidate(LeaveBalanceKey("E1"))
		c.Invalidate(EmployeeSalariesPrefix("E2"))
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	v, err := Fetch(ctx, c, key, func(context.Context) (string, error) {
		return "refetched", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestFetch_OverlappingFetches(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(time.Minute)

	// the outer fetch starts before the invalidation, the inner one after it
	_, err := Fetch(ctx, c, "balance:E1", func(context.Context) (int, error) {
		c.Invalidate("balance:")
		_, err := Fetch(ctx, c, "balance:E2", func(context.Context) (int, error) { return 2, nil })
		return 1, err
	})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len(), "only the fetch that began after the invalidation is stored")
	assert.Empty(t, c.invalidations)
	assert.Empty(t, c.inflight)
}

func TestFetch_ZeroTTLNeverStores(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(0)
	calls := 0

	_, _ = Fetch(ctx, c, "k", counter(&calls))
	_, _ = Fetch(ctx, c, "k", counter(&calls))
	assert.Equal(t, 2, calls)
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(time.Minute)
	calls := 0

	_, _ = Fetch(ctx, c, "a", counter(&calls))
	clk.t = clk.t.Add(30 * time.Second)
	_, _ = Fetch(ctx, c, "b", counter(&calls))
	clk.t = clk.t.Add(45 * time.Second)

	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 1, c.Len())
}
