// Package changefeed provides the in-process publish/subscribe feed that live
// readers use to re-query a collection after it changed.
package changefeed

import (
	"sync"
	"sync/atomic"

	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBuffer is the per-subscriber channel capacity
const DefaultBuffer = 64

type subscriber struct {
	ch          chan shared.Change
	collections map[shared.Collection]bool
}

func (s *subscriber) wants(c shared.Collection) bool {
	return len(s.collections) == 0 || s.collections[c]
}

// Bus is an in-memory implementation of outbound.ChangeFeed. Publish never
// blocks: a subscriber whose buffer is full misses the change.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*subscriber
	buffer      int
	dropped     atomic.Int64
	logger      *zap.Logger
}

// NewBus creates a new bus
func NewBus(logger *zap.Logger) *Bus {
	return NewBusWithBuffer(logger, DefaultBuffer)
}

// NewBusWithBuffer creates a bus with the given per-subscriber buffer
func NewBusWithBuffer(logger *zap.Logger, buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{
		subscribers: make(map[uuid.UUID]*subscriber),
		buffer:      buffer,
		logger:      logger.Named("changefeed"),
	}
}

// Publish delivers change to every interested subscriber
func (b *Bus) Publish(change shared.Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subscribers {
		if !sub.wants(change.Collection) {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			b.dropped.Add(1)
			b.logger.Debug("Dropped change for slow subscriber",
				zap.String("subscription", id.String()),
				zap.String("event", change.EventName()),
			)
		}
	}
}

// Subscribe registers a subscriber for the given collections, or all when none
// are given. The returned cancel func closes the channel and is safe to call twice.
func (b *Bus) Subscribe(collections ...shared.Collection) (<-chan shared.Change, func()) {
	id := uuid.New()
	sub := &subscriber{
		ch:          make(chan shared.Change, b.buffer),
		collections: make(map[shared.Collection]bool, len(collections)),
	}
	for _, c := range collections {
		sub.collections[c] = true
	}

	b.mu.Lock()
	b.subscribers[id] = sub
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Subscribers returns the number of active subscriptions
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped returns how many deliveries were skipped because a buffer was full
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}
