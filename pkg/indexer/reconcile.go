package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/searchkit/pkg/logger"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

// MaxSearchedDocuments bounds how many documents of a type are listed when
// looking for documents without a record.
const MaxSearchedDocuments = 10000

// Source is the primary store the records of an entity are persisted in.
type Source interface {
	Count(ctx context.Context, entity schema.Entity) (int64, error)
	Records(ctx context.Context, entity schema.Entity, fn func(schema.Record) error) error
}

// Status compares the documents of an entity with its records.
type Status struct {
	Entity string
	Index  string
	Type   string

	SearchCount   int64
	SearchCountOK bool
	SourceCount   int64
	SourceCountOK bool

	// States lists record ids per required action. Delete lists document
	// ids without a record.
	States map[Action][]string

	Inserted int
	Updated  int
	Errors   []error
}

// HasErrors reports whether any step failed.
func (s Status) HasErrors() bool { return len(s.Errors) > 0 }

// Err joins all errors of the status.
func (s Status) Err() error { return errors.Join(s.Errors...) }

// Reconciler reports and repairs drift between a Source and the search engine.
type Reconciler struct {
	indexer *ObjectIndexer
	source  Source
	logger  *slog.Logger
}

// NewReconciler returns a reconciler using indexer to write documents.
func NewReconciler(indexer *ObjectIndexer, source Source) (*Reconciler, error) {
	if indexer == nil || source == nil {
		return nil, fmt.Errorf("%w: reconciler needs an indexer and a source", ErrNilDependency)
	}
	return &Reconciler{indexer: indexer, source: source, logger: indexer.logger}, nil
}

// Status reports every indexable entity, or only the named one when entityName
// is not empty. With update set, records needing create or update are indexed.
func (r *Reconciler) Status(ctx context.Context, entityName string, update bool) ([]Status, error) {
	entities := r.indexer.Informer().Entities()
	if entityName != "" {
		e, err := r.indexer.Informer().Entity(entityName)
		if err != nil {
			return nil, err
		}
		entities = []schema.Entity{e}
	}

	statuses := make([]Status, 0, len(entities))
	for _, e := range entities {
		if err := ctx.Err(); err != nil {
			return statuses, err
		}
		statuses = append(statuses, r.EntityStatus(ctx, e, update))
	}
	return statuses, nil
}

// EntityStatus reports a single entity. Failures are collected in the
// returned status; states are only computed when both counts succeeded.
func (r *Reconciler) EntityStatus(ctx context.Context, e schema.Entity, update bool) Status {
	status := Status{
		Entity: e.Name,
		Index:  e.Index,
		Type:   e.Type,
		States: map[Action][]string{
			ActionCreate: {},
			ActionUpdate: {},
			ActionDelete: {},
		},
	}

	typ, err := r.documentType(e)
	if err != nil {
		status.Errors = append(status.Errors, err)
		return status
	}

	count, ok, err := typ.Count(ctx)
	switch {
	case err != nil:
		status.Errors = append(status.Errors, fmt.Errorf("count documents of %s/%s: %w", e.Index, e.Type, err))
	case !ok:
		status.Errors = append(status.Errors, fmt.Errorf("unable to retrieve a count for type %q at index %q, probably they do not exist", e.Type, e.Index))
	default:
		status.SearchCount, status.SearchCountOK = count, true
	}

	if count, err := r.source.Count(ctx, e); err != nil {
		status.Errors = append(status.Errors, fmt.Errorf("count records of %s: %w", e.Name, err))
	} else {
		status.SourceCount, status.SourceCountOK = count, true
	}

	if status.HasErrors() {
		return status
	}

	records := make(map[string]schema.Record)
	err = r.source.Records(ctx, e, func(rec schema.Record) error {
		action, err := r.indexer.ActionRequired(ctx, rec)
		if err != nil {
			return err
		}
		records[rec.ID] = rec
		if action != ActionNone {
			status.States[action] = append(status.States[action], rec.ID)
		}
		return nil
	})
	if err != nil {
		status.Errors = append(status.Errors, fmt.Errorf("compare records of %s: %w", e.Name, err))
		return status
	}

	orphans, err := r.orphanedDocuments(ctx, typ, records)
	if err != nil {
		status.Errors = append(status.Errors, err)
	}
	status.States[ActionDelete] = orphans

	if update {
		r.backfill(ctx, &status, records)
	}
	return status
}

func (r *Reconciler) backfill(ctx context.Context, status *Status, records map[string]schema.Record) {
	for _, id := range status.States[ActionCreate] {
		if err := r.indexer.IndexObject(ctx, records[id]); err != nil {
			status.Errors = append(status.Errors, fmt.Errorf("add object to the search backend: %w", err))
			continue
		}
		status.Inserted++
	}
	for _, id := range status.States[ActionUpdate] {
		if err := r.indexer.IndexObject(ctx, records[id]); err != nil {
			status.Errors = append(status.Errors, fmt.Errorf("update object in the search backend: %w", err))
			continue
		}
		status.Updated++
	}
	r.logger.InfoContext(ctx, "backfill finished",
		logger.Entity(status.Entity),
		slog.Int("inserted", status.Inserted),
		slog.Int("updated", status.Updated),
		slog.Int("errors", len(status.Errors)))
}

// orphanedDocuments lists ids of documents of the type that have no record.
// The keyword sub-field covers indices where the type field was mapped
// dynamically as text.
func (r *Reconciler) orphanedDocuments(ctx context.Context, typ *opensearch.Type, records map[string]schema.Record) ([]string, error) {
	resp, err := typ.Search(ctx, map[string]any{
		"size":    MaxSearchedDocuments,
		"_source": false,
		"query": map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{"term": map[string]any{opensearch.TypeField: typ.Name()}},
					map[string]any{"term": map[string]any{opensearch.TypeField + ".keyword": typ.Name()}},
				},
				"minimum_should_match": 1,
			},
		},
	})
	if err != nil {
		return []string{}, fmt.Errorf("list documents of %s/%s: %w", typ.Index().Name(), typ.Name(), err)
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := resp.Decode(&result); err != nil {
		return []string{}, fmt.Errorf("decode search response: %w", err)
	}

	orphans := []string{}
	for _, hit := range result.Hits.Hits {
		if _, ok := records[hit.ID]; !ok {
			orphans = append(orphans, hit.ID)
		}
	}
	return orphans, nil
}

func (r *Reconciler) documentType(e schema.Entity) (*opensearch.Type, error) {
	index, err := r.indexer.Client().FindIndex(e.Index)
	if err != nil {
		return nil, err
	}
	return index.FindType(e.Type), nil
}
