// Package realtime is the in-process event bus behind the SSE endpoint.
// Delivery is best effort: a slow subscriber drops events instead of
// blocking the publisher.
package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
)

// subscriber channel depth; events beyond it are dropped.
const bufferSize = 16

// Event is what a connected client receives.
type Event struct {
	Kind           domain.NotificationKind `json:"kind"`
	NotificationID uuid.UUID               `json:"notification_id"`
	RequestID      *uuid.UUID              `json:"request_id,omitempty"`
	Message        string                  `json:"message"`
	CreatedAt      time.Time               `json:"created_at"`
}

// Hub fans events out to per-user subscribers.
type Hub struct {
	log *slog.Logger

	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan Event]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:  log.With("component", "realtime"),
		subs: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// Subscribe registers a listener for the user's events. The returned
// cancel func must be called when the listener goes away; after cancel
// the channel is closed.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, bufferSize)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Event]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		set, ok := h.subs[userID]
		if !ok {
			return
		}
		if _, ok := set[ch]; !ok {
			return
		}
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, userID)
		}
		close(ch)
	}
	return ch, cancel
}

// Publish delivers the event to every live subscriber of the user.
// Subscribers whose buffer is full miss the event.
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- event:
		default:
			h.log.Warn("subscriber buffer full, dropping event",
				"user_id", userID, "kind", event.Kind)
		}
	}
}

// Subscribers reports how many listeners the user currently has.
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
