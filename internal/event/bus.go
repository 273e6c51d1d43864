// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package event

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Handler is a function that handles events
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers events synchronously to the handlers subscribed to their type.
// The zero value is ready to use.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[Type][]subscription
}

// New creates a new event bus
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for an event type.
// Returns an unsubscribe function; calling it more than once is a no-op.
func (b *Bus) Subscribe(eventType Type, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers == nil {
		b.handlers = make(map[Type][]subscription)
	}
	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.handlers[eventType]
			for i, s := range subs {
				if s.id == id {
					// copy so snapshots taken by in-progress publishes stay intact
					next := make([]subscription, 0, len(subs)-1)
					next = append(next, subs[:i]...)
					b.handlers[eventType] = append(next, subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish calls every handler currently subscribed to the event type, in
// subscription order, on the calling goroutine.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := b.handlers[e.Type()]
	b.mu.Unlock()

	for _, s := range subs {
		b.call(s.handler, e)
	}
}

func (b *Bus) call(handler Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panic",
				"event", string(e.Type()),
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	handler(e)
}

// Len returns the number of handlers subscribed to an event type
func (b *Bus) Len(eventType Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[eventType])
}
