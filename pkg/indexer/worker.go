package indexer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

// Worker pops queued events and hands them to an Observer, one at a time.
type Worker struct {
	queue    Queue
	observer Observer
	logger   *slog.Logger
	backoff  time.Duration
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithWorkerLogger sets the worker logger. Nil loggers are ignored.
func WithWorkerLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithErrorBackoff sets the pause after a failed Pop.
func WithErrorBackoff(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.backoff = d
		}
	}
}

// NewWorker returns a worker dispatching events from queue to observer.
func NewWorker(queue Queue, observer Observer, opts ...WorkerOption) (*Worker, error) {
	if queue == nil || observer == nil {
		return nil, errors.Join(ErrNilDependency, errors.New("worker needs a queue and an observer"))
	}
	w := &Worker{
		queue:    queue,
		observer: observer,
		logger:   slog.New(slog.DiscardHandler),
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes events until ctx is done or the queue is closed, both of
// which end it without error. Events that fail to decode or to index are
// logged and dropped.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "indexing worker started")
	defer w.logger.InfoContext(ctx, "indexing worker stopped")

	for {
		payload, err := w.queue.Pop(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil, errors.Is(err, ErrQueueClosed):
			return nil
		default:
			w.logger.ErrorContext(ctx, "failed to pop indexing event", logger.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.backoff):
			}
			continue
		}

		if err := w.Handle(ctx, payload); err != nil {
			w.logger.ErrorContext(ctx, "failed to handle indexing event", logger.Error(err))
		}
	}
}

// Handle decodes one payload and dispatches it to the observer.
func (w *Worker) Handle(ctx context.Context, payload []byte) error {
	e, err := DecodeEvent(payload)
	if err != nil {
		return err
	}
	ctx = WithEventID(ctx, e.ID)

	start := time.Now()
	switch e.Kind {
	case EventPersisted:
		err = w.observer.OnPersisted(ctx, e.Record)
	case EventUpdated:
		err = w.observer.OnUpdated(ctx, e.Record)
	case EventRemoved:
		err = w.observer.OnRemoved(ctx, e.Record)
	}
	if err != nil {
		return err
	}
	w.logger.DebugContext(ctx, "indexing event handled",
		logger.Action(string(e.Kind)),
		logger.Entity(e.Record.Entity),
		logger.DocumentID(e.Record.ID),
		logger.Duration(time.Since(start)))
	return nil
}

type eventIDKey struct{}

// WithEventID stores the id of the event being handled in ctx.
func WithEventID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, eventIDKey{}, id)
}

// EventIDFromContext returns the id stored by WithEventID.
func EventIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(eventIDKey{}).(uuid.UUID)
	return id, ok
}

// EventIDExtractor adds the current event id to log records; pass it to
// logger.WithContextExtractors.
func EventIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := EventIDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.EventID(id.String()), true
}
