package pubsub

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type SubscriptionID int64

// Pubsub fans messages out to subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the message.
type Pubsub[T any] struct {
	nextID      SubscriptionID
	subscribers map[SubscriptionID]chan T
	buffer      int
	mu          sync.RWMutex
}

// New returns a Pubsub whose subscriber channels hold up to buffer messages.
func New[T any](buffer int) *Pubsub[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Pubsub[T]{
		subscribers: make(map[SubscriptionID]chan T),
		buffer:      buffer,
	}
}

func (ps *Pubsub[T]) Subscribe() (SubscriptionID, <-chan T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan T, ps.buffer)
	id := ps.nextID

	ps.subscribers[id] = ch
	ps.nextID += 1

	return id, ch
}

// Unsubscribe closes the subscriber's channel. Unknown IDs are ignored.
func (ps *Pubsub[T]) Unsubscribe(id SubscriptionID) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch, ok := ps.subscribers[id]
	if !ok {
		return
	}

	delete(ps.subscribers, id)
	close(ch)
}

func (ps *Pubsub[T]) Publish(msg T) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for id, ch := range ps.subscribers {
		select {
		case ch <- msg:
		default:
			log.Warn().
				Str("component", "pubsub").
				Int64("subscription_id", int64(id)).
				Interface("message", msg).
				Msg("Message dropped, channel full")
		}
	}
}

// Len returns the number of active subscribers.
func (ps *Pubsub[T]) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers)
}
