// Package notifier is a process-wide best-effort broadcast channel. Events
// carry no delivery or ordering guarantee and are never replayed: connected
// subscribers treat them as hints to re-query authoritative state.
package notifier

import (
	"sync"

	"dairydrop/internal/apperrors"
)

// Event names broadcast by the store.
const (
	// EventProductsUpdated tells clients to re-fetch the catalog. No payload.
	EventProductsUpdated = "productsUpdated"
	// EventNewOrder carries the created order to administrative listeners.
	EventNewOrder = "newOrder"
)

// Event is a single broadcast message.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// subscriberBuffer bounds how far a subscriber may lag before events are
// dropped for it. Dropping keeps Publish non-blocking.
const subscriberBuffer = 16

// Subscriber is one connected listener. It must be Closed when the client
// disconnects so the hub can release it.
type Subscriber struct {
	hub  *Hub
	ch   chan Event
	once sync.Once
}

// Events returns the subscriber's event stream. The channel is closed by
// Close.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Close removes the subscriber from the hub and closes its event stream.
// Safe to call more than once.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

// Hub fans events out to every currently-connected subscriber. The zero
// value is not usable; construct with NewHub and inject it where needed.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new listener.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{hub: h, ch: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish fans the event out to all current subscribers without blocking;
// events are dropped for subscribers whose buffer is full. Publishing with
// zero subscribers succeeds. A nil hub fails closed with ErrNotInitialized
// so call sites can log and move on.
func (h *Hub) Publish(name string, payload any) error {
	if h == nil {
		return apperrors.New(apperrors.ErrNotInitialized, "notifier not initialized")
	}
	ev := Event{Name: name, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			// Subscriber is too slow; it will re-sync on its next fetch.
		}
	}
	return nil
}

func (h *Hub) remove(s *Subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

// Shutdown closes every remaining subscriber. Used on server stop; new
// subscriptions after Shutdown are pointless but harmless.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()
	for _, sub := range subs {
		sub.Close()
	}
}
