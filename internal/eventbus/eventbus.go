// ABOUTME: Typed event bus with ordered delivery and a capture phase
// ABOUTME: Each subscription gets its own idempotent unsubscribe; removed handlers never fire

package eventbus

import (
	"sync"
	"sync/atomic"
)

// Handler is a callback function for events.
type Handler[T any] func(T)

type subscription[T any] struct {
	id      int
	capture bool
	handler Handler[T]
	live    atomic.Bool
}

// Bus is a typed event bus that delivers events to registered handlers.
// Capture handlers run before bubble handlers; within a phase, handlers run
// in registration order.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []*subscription[T]
	nextID int
}

// New creates a new event bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a bubble-phase handler and returns an unsubscribe function.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	return b.add(handler, false)
}

// SubscribeCapture registers a capture-phase handler and returns an
// unsubscribe function.
func (b *Bus[T]) SubscribeCapture(handler Handler[T]) func() {
	return b.add(handler, true)
}

func (b *Bus[T]) add(handler Handler[T], capture bool) func() {
	sub := &subscription[T]{capture: capture, handler: handler}
	sub.live.Store(true)

	b.mu.Lock()
	sub.id = b.nextID
	b.nextID++
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.live.Store(false)
			b.mu.Lock()
			for i, s := range b.subs {
				if s.id == sub.id {
					b.subs = append(b.subs[:i], b.subs[i+1:]...)
					break
				}
			}
			b.mu.Unlock()
		})
	}
}

// Publish sends an event to all registered handlers synchronously.
// A handler unsubscribed by an earlier handler during the same Publish is
// skipped.
func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	// Snapshot handlers to avoid holding lock during callbacks
	snapshot := make([]*subscription[T], 0, len(b.subs))
	for _, s := range b.subs {
		if s.capture {
			snapshot = append(snapshot, s)
		}
	}
	for _, s := range b.subs {
		if !s.capture {
			snapshot = append(snapshot, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range snapshot {
		if s.live.Load() {
			s.handler(event)
		}
	}
}

// Reset unsubscribes every handler.
func (b *Bus[T]) Reset() {
	b.mu.Lock()
	for _, s := range b.subs {
		s.live.Store(false)
	}
	b.subs = nil
	b.mu.Unlock()
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
