package session

import (
	"sync"
	"time"
)

// Busy is implemented by values that must not be evicted while an
// operation on them is still running.
type Busy interface {
	IsBusy() bool
}

type slot[T Busy] struct {
	value    T
	lastUsed time.Time
}

// Registry keeps one value per key and forgets values left idle.
type Registry[T Busy] struct {
	mu    sync.Mutex
	slots map[string]*slot[T]
	now   func() time.Time
}

func NewRegistry[T Busy]() *Registry[T] {
	return &Registry[T]{
		slots: make(map[string]*slot[T]),
		now:   time.Now,
	}
}

// Acquire returns the value for key, creating it with create when absent,
// and marks it as used.
func (r *Registry[T]) Acquire(key string, create func() T) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[key]
	if !ok {
		s = &slot[T]{value: create()}
		r.slots[key] = s
	}
	s.lastUsed = r.now()
	return s.value
}

// Get returns the value for key without creating it.
func (r *Registry[T]) Get(key string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[key]
	if !ok {
		var zero T
		return zero, false
	}
	s.lastUsed = r.now()
	return s.value, true
}

func (r *Registry[T]) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, key)
}

// Sweep removes values unused for longer than idle, skipping busy ones.
// It returns how many were removed.
func (r *Registry[T]) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for key, s := range r.slots {
		if s.lastUsed.After(cutoff) || s.value.IsBusy() {
			continue
		}
		delete(r.slots, key)
		removed++
	}
	return removed
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}
