// Package eventbus is an in-memory pub/sub for frame events.
package eventbus

import (
	"sync"
	"sync/atomic"
)

// Event types published by the HTTP renderer.
const (
	TypeRender    = "render"
	TypeHighlight = "highlight"
	TypeReset     = "reset"
	TypeFinish    = "finish"
	TypeControls  = "controls"
)

// Event is one published message. ID increases across the bus.
type Event struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Bus fans events out to subscribers. Slow subscribers lose events instead of
// blocking the publisher.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan *Event]struct{}
	seq  atomic.Int64
	size int
}

// New creates a bus whose subscriber channels buffer size events. A size
// below 1 means 64.
func New(size int) *Bus {
	if size < 1 {
		size = 64
	}
	return &Bus{subs: make(map[chan *Event]struct{}), size: size}
}

// Subscribe creates a channel that receives every later event.
func (b *Bus) Subscribe() chan *Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *Event, b.size)
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes ch.
func (b *Bus) Unsubscribe(ch chan *Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish stamps the event with the next id and offers it to every
// subscriber.
func (b *Bus) Publish(typ string, data any) *Event {
	ev := &Event{ID: b.seq.Add(1), Type: typ, Data: data}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Drop event if subscriber is too slow.
		}
	}
	return ev
}

func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
