package service

import "sync"

// Event represents a selection or resource mutation within one session.
type Event struct {
	Session  string // session ID the mutation belongs to
	Resource string // e.g. "areas", "markers", "mode"
	Action   string // "activated", "deactivated", "added", "removed", "changed"
	ID       string // resource ID, if any
}

// EventBus is a simple fan-out pub/sub for session change events. The SSE
// handlers subscribe to it so every open browser tab of a session sees the
// same panel updates.
type EventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan Event]struct{})}
}

// Publish sends an event to all subscribers (non-blocking).
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives events.
func (b *EventBus) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}
