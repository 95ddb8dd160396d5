// Package event provides the minimal publish/subscribe channel that data
// sources use to announce state changes.
package event

import "sync"

// Handler receives the argument list passed to Emit.
type Handler func(args ...any)

// Bus is a synchronous topic-keyed handler list.
//
// Handlers run on the emitting goroutine, in registration order, and receive
// the full argument list. Emitting on a topic nobody subscribed to is a
// no-op. There is no unsubscribe. The bus does not recover panics: a
// panicking handler propagates to the Emit call site.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// On registers a handler for a topic.
func (b *Bus) On(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Emit invokes every handler registered for topic with args, synchronously
// and in registration order.
func (b *Bus) Emit(topic string, args ...any) {
	b.mu.RLock()
	hs := b.handlers[topic]
	b.mu.RUnlock()

	for _, h := range hs {
		h(args...)
	}
}
