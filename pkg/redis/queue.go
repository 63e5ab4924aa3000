package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the list used when no key is configured.
const DefaultQueueKey = "searchkit:events"

// Queue is a FIFO of indexing event payloads on a Redis list, shared by any
// number of producers and workers. Producers LPUSH, workers BRPOP.
type Queue struct {
	client      redis.UniversalClient
	key         string
	pollTimeout time.Duration
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithQueueKey sets the list key. Empty keys are ignored.
func WithQueueKey(key string) QueueOption {
	return func(q *Queue) {
		if key != "" {
			q.key = key
		}
	}
}

// WithPollTimeout sets how long a single BRPOP blocks before Pop checks
// its context again.
func WithPollTimeout(d time.Duration) QueueOption {
	return func(q *Queue) {
		if d > 0 {
			q.pollTimeout = d
		}
	}
}

// NewQueue returns a queue on client.
func NewQueue(client redis.UniversalClient, opts ...QueueOption) *Queue {
	q := &Queue{client: client, key: DefaultQueueKey, pollTimeout: time.Second}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Key returns the list key.
func (q *Queue) Key() string { return q.key }

// Push appends payload to the queue.
func (q *Queue) Push(ctx context.Context, payload []byte) error {
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return errors.Join(ErrQueueFailed, err)
	}
	return nil
}

// Pop blocks until a payload is available or ctx is done.
func (q *Queue) Pop(ctx context.Context) ([]byte, error) {
	for {
		res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		switch {
		case err == nil && len(res) == 2:
			return []byte(res[1]), nil
		case err == nil, errors.Is(err, redis.Nil):
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			return nil, errors.Join(ErrQueueFailed, err)
		}
	}
}

// Len returns the number of queued payloads.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, errors.Join(ErrQueueFailed, err)
	}
	return n, nil
}
