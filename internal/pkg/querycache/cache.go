package querycache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type invalidation struct {
	seq    uint64
	prefix string
}

// Cache holds query results by key until they expire or are invalidated.
// A fetch that overlaps an invalidation of its own key is returned to its
// caller but never stored, so a stale read cannot outlive the write that
// invalidated it. Invalidations of other keys do not affect it.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time

	seq           uint64
	invalidations []invalidation
	// fetch start seq -> number of fetches still running from it
	inflight map[uint64]int
}

// New creates a Cache. A ttl of zero disables storage and every Fetch goes
// to the source.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:      ttl,
		entries:  make(map[string]entry),
		now:      time.Now,
		inflight: make(map[uint64]int),
	}
}

// Fetch returns the cached value of key or loads it with fetch.
func Fetch[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
		if v, ok := e.value.(T); ok {
			c.mu.Unlock()
			return v, nil
		}
	}
	start := c.seq
	c.inflight[start]++
	c.mu.Unlock()

	v, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	stale := c.invalidatedSince(key, start)
	c.finish(start)

	if err != nil {
		var zero T
		return zero, err
	}
	if c.ttl > 0 && !stale {
		c.entries[key] = entry{value: v, expiresAt: c.now().Add(c.ttl)}
	}
	return v, nil
}

// Invalidate drops every key starting with prefix.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	if len(c.inflight) > 0 {
		c.invalidations = append(c.invalidations, invalidation{seq: c.seq, prefix: prefix})
	}
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) invalidatedSince(key string, start uint64) bool {
	for _, inv := range c.invalidations {
		if inv.seq > start && strings.HasPrefix(key, inv.prefix) {
			return true
		}
	}
	return false
}

// finish retires one fetch and forgets invalidations no running fetch can
// still overlap.
func (c *Cache) finish(start uint64) {
	if c.inflight[start]--; c.inflight[start] <= 0 {
		delete(c.inflight, start)
	}
	if len(c.inflight) == 0 {
		c.invalidations = nil
		return
	}

	oldest := c.seq
	for s := range c.inflight {
		oldest = min(oldest, s)
	}
	kept := c.invalidations[:0]
	for _, inv := range c.invalidations {
		if inv.seq > oldest {
			kept = append(kept, inv)
		}
	}
	c.invalidations = kept
}

// Purge removes expired entries.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
