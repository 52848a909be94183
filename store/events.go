package store

import "sync"

// Event announces a slice mutation so consumers (the websocket stream, the
// derived-view engine) can react. Version is the slice's version after the
// mutation.
type Event struct {
	Slice   string `json:"slice"`
	Op      string `json:"op"`
	Version uint64 `json:"version"`
}

// EventBus fans mutation events out to subscribers. Delivery is best-effort:
// a subscriber that stops draining its channel misses events rather than
// blocking mutations.
type EventBus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

func newEventBus() *EventBus {
	return &EventBus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned id releases it.
func (b *EventBus) Subscribe() (int, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, 16)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe releases a listener and closes its channel.
func (b *EventBus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

func (b *EventBus) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
