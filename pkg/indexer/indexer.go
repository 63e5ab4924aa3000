package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/searchkit/pkg/logger"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/schema"
	"github.com/dmitrymomot/searchkit/pkg/transform"
)

// Action is what a record needs for its document to match it.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionNone   Action = "none"
)

// Observer receives persistence notifications of entity records.
type Observer interface {
	OnPersisted(ctx context.Context, rec schema.Record) error
	OnUpdated(ctx context.Context, rec schema.Record) error
	OnRemoved(ctx context.Context, rec schema.Record) error
}

// ObjectIndexer keeps documents in sync with entity records. It is the one
// Observer that writes to the search engine.
type ObjectIndexer struct {
	informer     *Informer
	client       *opensearch.Client
	transformers *transform.Registry
	logger       *slog.Logger
}

var _ Observer = (*ObjectIndexer)(nil)

// Option configures an ObjectIndexer.
type Option func(*ObjectIndexer)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *ObjectIndexer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTransformers sets the transformer registry used for field values.
func WithTransformers(r *transform.Registry) Option {
	return func(o *ObjectIndexer) {
		if r != nil {
			o.transformers = r
		}
	}
}

// NewObjectIndexer returns an indexer writing through client.
func NewObjectIndexer(informer *Informer, client *opensearch.Client, opts ...Option) (*ObjectIndexer, error) {
	if informer == nil || client == nil {
		return nil, fmt.Errorf("%w: object indexer needs an informer and a client", ErrNilDependency)
	}
	o := &ObjectIndexer{
		informer:     informer,
		client:       client,
		transformers: transform.NewRegistry(),
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func (o *ObjectIndexer) Client() *opensearch.Client { return o.client }

func (o *ObjectIndexer) Informer() *Informer { return o.informer }

// OnPersisted indexes a newly persisted record. Records of entities that are
// not indexable are ignored.
func (o *ObjectIndexer) OnPersisted(ctx context.Context, rec schema.Record) error {
	if !o.informer.IsIndexable(rec.Entity) {
		return nil
	}
	return o.IndexObject(ctx, rec)
}

// OnUpdated reindexes an updated record.
func (o *ObjectIndexer) OnUpdated(ctx context.Context, rec schema.Record) error {
	if !o.informer.IsIndexable(rec.Entity) {
		return nil
	}
	return o.IndexObject(ctx, rec)
}

// OnRemoved deletes the document of a removed record.
func (o *ObjectIndexer) OnRemoved(ctx context.Context, rec schema.Record) error {
	if !o.informer.IsIndexable(rec.Entity) {
		return nil
	}
	return o.RemoveObject(ctx, rec)
}

// IndexObject stores the document of rec under the record id.
func (o *ObjectIndexer) IndexObject(ctx context.Context, rec schema.Record) error {
	typ, err := o.documentType(rec.Entity)
	if err != nil {
		return err
	}
	data, err := o.DocumentData(rec)
	if err != nil {
		return err
	}

	doc := opensearch.NewDocument(typ, data, opensearch.WithID(rec.ID))
	if err := doc.Store(ctx); err != nil {
		o.logger.ErrorContext(ctx, "failed to index object",
			logger.Entity(rec.Entity), logger.DocumentID(rec.ID), logger.Error(err))
		return fmt.Errorf("index %s %s: %w", rec.Entity, rec.ID, err)
	}
	o.logger.DebugContext(ctx, "object indexed",
		logger.Entity(rec.Entity), logger.DocumentID(doc.ID()), slog.Int64("version", doc.Version()))
	return nil
}

// RemoveObject deletes the document of rec. A missing document is not an error.
func (o *ObjectIndexer) RemoveObject(ctx context.Context, rec schema.Record) error {
	typ, err := o.documentType(rec.Entity)
	if err != nil {
		return err
	}
	deleted, err := typ.DeleteDocumentByID(ctx, rec.ID)
	if err != nil {
		o.logger.ErrorContext(ctx, "failed to remove object",
			logger.Entity(rec.Entity), logger.DocumentID(rec.ID), logger.Error(err))
		return fmt.Errorf("remove %s %s: %w", rec.Entity, rec.ID, err)
	}
	o.logger.DebugContext(ctx, "object removed",
		logger.Entity(rec.Entity), logger.DocumentID(rec.ID), slog.Bool("deleted", deleted))
	return nil
}

// DocumentData returns the document contents for rec: the values of the
// indexed fields, transformed where a transform is declared. Fields absent
// from the record are left out.
func (o *ObjectIndexer) DocumentData(rec schema.Record) (map[string]any, error) {
	entity, err := o.informer.Entity(rec.Entity)
	if err != nil {
		return nil, err
	}
	fields := o.informer.IndexedFields(entity)
	data := make(map[string]any, len(fields))
	for _, f := range fields {
		value, ok := rec.Value(f.Name)
		if !ok {
			continue
		}
		if f.Transform != nil {
			t, err := o.transformers.Get(f.Transform.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", rec.Entity, f.Name, err)
			}
			if value, err = t.Transform(value, f.Transform.Options); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", rec.Entity, f.Name, err)
			}
		}
		data[f.Name] = value
	}
	return data, nil
}

// ActionRequired compares rec with its stored document: create when there
// is none, update when the contents differ, none otherwise.
func (o *ObjectIndexer) ActionRequired(ctx context.Context, rec schema.Record) (Action, error) {
	typ, err := o.documentType(rec.Entity)
	if err != nil {
		return ActionNone, err
	}
	doc, err := typ.FindDocumentByID(ctx, rec.ID)
	if err != nil {
		if errors.Is(err, opensearch.ErrDocumentMismatch) {
			return ActionUpdate, nil
		}
		return ActionNone, err
	}
	if doc == nil {
		return ActionCreate, nil
	}

	data, err := o.DocumentData(rec)
	if err != nil {
		return ActionNone, err
	}
	data[opensearch.TypeField] = typ.Name()
	if !reflect.DeepEqual(normalize(data), normalize(doc.Data())) {
		return ActionUpdate, nil
	}
	return ActionNone, nil
}

func (o *ObjectIndexer) documentType(entityName string) (*opensearch.Type, error) {
	entity, err := o.informer.Entity(entityName)
	if err != nil {
		return nil, err
	}
	index, err := o.client.FindIndex(entity.Index)
	if err != nil {
		return nil, err
	}
	return index.FindType(entity.Type), nil
}

// normalize brings values into their JSON decoded form so that locally
// built data compares equal to data read back from the engine.
func normalize(v map[string]any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
