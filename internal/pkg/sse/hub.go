package sse

import (
	"sync"
)

// EventInvalidated tells the portal that a cached query is stale and
// should be refetched.
const EventInvalidated = "invalidated"

// subscriberBuffer is how many events a slow client may fall behind before
// new ones are dropped for it.
const subscriberBuffer = 16

// Event represents an SSE event to be sent to subscribers
type Event struct {
	UserID string
	Event  string
	Data   interface{}
}

// InvalidatedData is the payload of an EventInvalidated event
type InvalidatedData struct {
	QueryKey string `json:"query_key"`
}

// NewInvalidatedEvent builds the event published after a successful write
func NewInvalidatedEvent(userID, queryKey string) Event {
	return Event{
		UserID: userID,
		Event:  EventInvalidated,
		Data:   InvalidatedData{QueryKey: queryKey},
	}
}

// Hub fans events out to the open streams of each user. A user may have
// several streams, one per browser tab.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		streams: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe opens a stream for userID. The returned cancel func closes the
// channel and may be called more than once.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.streams[userID] == nil {
		h.streams[userID] = make(map[chan Event]struct{})
	}
	h.streams[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.streams[userID], ch)
			if len(h.streams[userID]) == 0 {
				delete(h.streams, userID)
			}
			close(ch)
		})
	}

	return ch, cancel
}

// Publish delivers event to every stream of userID without blocking and
// reports how many streams received it.
func (h *Hub) Publish(userID string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.streams[userID] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount returns the number of open streams for a user
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[userID])
}
