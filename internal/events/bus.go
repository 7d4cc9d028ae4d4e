// Package events carries host notifications (content modified, clicks) to
// subscribers registered by the application shell.
package events

import (
	"context"
	"sync"
)

// Disposer undoes a registration. Calling it more than once is safe.
type Disposer func()

// Handler receives one event.
type Handler[T any] func(ctx context.Context, ev T)

// Bus delivers events to subscribers synchronously, in subscription order.
type Bus[T any] struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler[T]
	order    []int
}

// NewBus returns an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{handlers: make(map[int]Handler[T])}
}

// Subscribe registers h and returns its disposer.
func (b *Bus[T]) Subscribe(h Handler[T]) Disposer {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit calls every current subscriber with ev.
func (b *Bus[T]) Emit(ctx context.Context, ev T) {
	b.mu.RLock()
	hs := make([]Handler[T], 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(ctx, ev)
	}
}

// Len returns the number of subscribers.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
