package services

import (
	"sync"
)

// Cart event actions.
const (
	CartEventAdded   = "added"
	CartEventUpdated = "updated"
	CartEventRemoved = "removed"
	CartEventCleared = "cleared"
)

// CartEvent describes one cart mutation. Every mutation is broadcast so any
// open view (header badge, cart page) can refresh without reloading.
type CartEvent struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// CartBroadcaster is an explicit publish/subscribe channel for cart events.
type CartBroadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan CartEvent
}

func NewCartBroadcaster() *CartBroadcaster {
	return &CartBroadcaster{subs: make(map[int]chan CartEvent)}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away.
func (b *CartBroadcaster) Subscribe() (<-chan CartEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan CartEvent, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to all subscribers. Slow subscribers are
// skipped rather than blocking the publisher.
func (b *CartBroadcaster) Publish(event CartEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
