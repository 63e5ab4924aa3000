package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/searchkit/pkg/schema"
)

// EventKind is the persistence notification an event carries.
type EventKind string

const (
	EventPersisted EventKind = "persisted"
	EventUpdated   EventKind = "updated"
	EventRemoved   EventKind = "removed"
)

// Event is a persistence notification queued for asynchronous indexing.
type Event struct {
	ID     uuid.UUID     `json:"id"`
	Kind   EventKind     `json:"kind"`
	Record schema.Record `json:"record"`
	Time   time.Time     `json:"time"`
}

// NewEvent returns an event with a fresh id.
func NewEvent(kind EventKind, rec schema.Record) Event {
	return Event{ID: uuid.New(), Kind: kind, Record: rec, Time: time.Now().UTC()}
}

// EncodeEvent returns the queue payload of e.
func EncodeEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses a queue payload.
func DecodeEvent(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, errors.Join(ErrInvalidEvent, err)
	}
	switch e.Kind {
	case EventPersisted, EventUpdated, EventRemoved:
	default:
		return Event{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	}
	if e.Record.Entity == "" || e.Record.ID == "" {
		return Event{}, fmt.Errorf("%w: record without entity or id", ErrInvalidEvent)
	}
	return e, nil
}

// Queue transports encoded events from producers to a Worker. Pop blocks
// until a payload is available, the context is done or the queue is closed.
type Queue interface {
	Push(ctx context.Context, payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// MemoryQueue is an in-process Queue for tests and single-process setups.
type MemoryQueue struct {
	items  chan []byte
	done   chan struct{}
	closed sync.Once
}

// NewMemoryQueue returns a queue buffering up to size payloads.
func NewMemoryQueue(size int) *MemoryQueue {
	if size < 1 {
		size = 1
	}
	return &MemoryQueue{items: make(chan []byte, size), done: make(chan struct{})}
}

// Push blocks while the buffer is full.
func (q *MemoryQueue) Push(ctx context.Context, payload []byte) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.items <- payload:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Pop(ctx context.Context) ([]byte, error) {
	select {
	case payload := <-q.items:
		return payload, nil
	case <-q.done:
		return nil, ErrQueueClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close makes every pending and following call fail with ErrQueueClosed.
func (q *MemoryQueue) Close() error {
	q.closed.Do(func() { close(q.done) })
	return nil
}

// QueueObserver is an Observer that defers indexing by queueing events.
type QueueObserver struct {
	queue Queue
}

var _ Observer = (*QueueObserver)(nil)

// NewQueueObserver returns an observer pushing to queue.
func NewQueueObserver(queue Queue) *QueueObserver {
	return &QueueObserver{queue: queue}
}

func (o *QueueObserver) OnPersisted(ctx context.Context, rec schema.Record) error {
	return o.push(ctx, NewEvent(EventPersisted, rec))
}

func (o *QueueObserver) OnUpdated(ctx context.Context, rec schema.Record) error {
	return o.push(ctx, NewEvent(EventUpdated, rec))
}

func (o *QueueObserver) OnRemoved(ctx context.Context, rec schema.Record) error {
	return o.push(ctx, NewEvent(EventRemoved, rec))
}

func (o *QueueObserver) push(ctx context.Context, e Event) error {
	payload, err := EncodeEvent(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := o.queue.Push(ctx, payload); err != nil {
		return fmt.Errorf("queue %s event of %s %s: %w", e.Kind, e.Record.Entity, e.Record.ID, err)
	}
	return nil
}
