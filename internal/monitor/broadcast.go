// internal/monitor/broadcast.go
package monitor

import (
	"sync"

	"go.uber.org/zap"
)

// Broadcaster fans values out to any number of subscribers without ever
// blocking the producer. Each subscriber owns a bounded buffer; when it
// falls behind, the oldest buffered value is dropped so the buffer always
// holds the most recent ones, in arrival order.
type Broadcaster[T any] struct {
	mu       sync.Mutex
	subs     map[int]chan T
	nextID   int
	capacity int
	closed   bool
	logger   *zap.Logger
}

// NewBroadcaster creates a broadcaster whose subscribers buffer up to
// capacity values.
func NewBroadcaster[T any](capacity int, logger *zap.Logger) *Broadcaster[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Broadcaster[T]{
		subs:     make(map[int]chan T),
		capacity: capacity,
		logger:   logger.Named("broadcast"),
	}
}

// Subscribe registers a new consumer. The returned cancel function removes
// the subscription and closes its channel.
func (b *Broadcaster[T]) Subscribe() (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, b.capacity)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
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

// Publish delivers v to every subscriber. A full subscriber loses its oldest
// buffered value, never the newest.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for id, ch := range b.subs {
		for {
			select {
			case ch <- v:
			default:
				select {
				case <-ch:
					b.logger.Debug("Subscriber lagging, dropped oldest value", zap.Int("subscriber", id))
				default:
				}
				continue
			}
			break
		}
	}
}

// Close shuts the broadcaster down and closes every subscriber channel.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
