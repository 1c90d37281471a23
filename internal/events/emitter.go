package events

import (
	"sync"

	"github.com/charmbracelet/log"
)

// A thread safe event emitter for component lifecycle notifications.
//
// Subscriptions are delivered in the order they were registered. Emit
// snapshots the subscriber list first, so handlers added mid-emission
// join the next round, and a handler that panics never stops delivery
// to the rest.

type subscription struct {
	id int
	t  Type
	h  Handler
}

type Bus struct {
	mu   sync.Mutex
	seq  Sequence
	subs []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(t Type, h Handler) func() {
	b.mu.Lock()
	id := b.seq.Next()
	b.subs = append(b.subs, subscription{id: id, t: t, h: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
		// Unknown id (already removed) is a no-op.
		b.mu.Unlock()
	}
}

func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs))

	for _, s := range b.subs {
		if s.t == e.Type {
			handlers = append(handlers, s.h)
		}
	}

	b.mu.Unlock()

	// Call without holding lock so a handler can emit and unsubscribe safely.
	for _, h := range handlers {
		deliver(h, e)
	}
}

func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("event handler panicked", "event", e.Type, "panic", r)
		}
	}()

	h(e)
}
