package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wavetune/wavetune/service/messaging"
)

// OverflowPolicy controls what Publish does when the queue buffer is full.
type OverflowPolicy string

const (
	// OverflowDropOldest discards the oldest buffered message to make room.
	// This is the right default for a live observation stream: a held pose
	// keeps re-emitting identical observations, so stale frames are
	// recoverable noise.
	OverflowDropOldest OverflowPolicy = "dropOldest"

	// OverflowBlock blocks the publisher until the consumer catches up or
	// the context is cancelled.
	OverflowBlock OverflowPolicy = "block"
)

// Config for memory queue implementation
type Config struct {
	QueueBuffer int
	Overflow    OverflowPolicy
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		QueueBuffer: 100,
		Overflow:    OverflowDropOldest,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	mu        sync.Mutex
	processed bool
	createdAt time.Time
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return nil
}

// Nack indicates a failure in processing this message. The queue does not
// redeliver: an observation that failed to process is stale by the time it
// could be retried, the recognizer will have produced fresher ones.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return nil
}

// Queue implements a bounded in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	mu       sync.Mutex
	dropped  int
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	if config.Overflow == "" {
		config.Overflow = OverflowDropOldest
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a new item to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	msg := &Message[T]{
		id:        uuid.New().String(),
		payload:   *t,
		createdAt: time.Now(),
	}

	if q.config.Overflow == OverflowBlock {
		select {
		case q.messages <- msg:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Drop-oldest: eviction and insertion happen under the lock so two
	// concurrent publishers cannot both evict for the same free slot.
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case q.messages <- msg:
			return nil
		default:
		}
		select {
		case <-q.messages:
			q.dropped++
		default:
		}
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of buffered messages
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// Dropped returns the number of messages evicted by the drop-oldest policy
func (q *Queue[T]) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
