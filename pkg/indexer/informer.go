package indexer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

// Informer knows which entities are indexable, where their documents live
// and which of their fields take part in indexing.
type Informer struct {
	entities []schema.Entity
	byName   map[string]int
}

// NewInformer validates entities and returns an informer over them.
func NewInformer(entities []schema.Entity) (*Informer, error) {
	if err := schema.Validate(entities); err != nil {
		return nil, errors.Join(ErrInvalidSchema, err)
	}
	byName := make(map[string]int, len(entities))
	for i, e := range entities {
		if _, err := opensearch.NewIndex(e.Index, nil); err != nil {
			return nil, errors.Join(ErrInvalidSchema, fmt.Errorf("entity %s: %w", e.Name, err))
		}
		byName[e.Name] = i
	}
	return &Informer{entities: entities, byName: byName}, nil
}

// Entities returns the indexable entities in declaration order.
func (i *Informer) Entities() []schema.Entity { return i.entities }

// Entity returns the indexable entity called name.
func (i *Informer) Entity(name string) (schema.Entity, error) {
	idx, ok := i.byName[name]
	if !ok {
		return schema.Entity{}, fmt.Errorf("%w: %s", ErrUnknownEntity, name)
	}
	return i.entities[idx], nil
}

// IsIndexable reports whether an entity of that name is declared.
func (i *Informer) IsIndexable(name string) bool {
	_, ok := i.byName[name]
	return ok
}

// IndexedFields returns the fields of e that are written to documents and
// mapped: the explicitly marked ones, or all fields when none is marked.
func (i *Informer) IndexedFields(e schema.Entity) []schema.Field {
	return e.IndexedFields()
}

// AllIndexNames returns every index name used by an entity, sorted, without
// duplicates.
func (i *Informer) AllIndexNames() []string {
	seen := make(map[string]struct{}, len(i.entities))
	names := make([]string, 0, len(i.entities))
	for _, e := range i.entities {
		if _, ok := seen[e.Index]; ok {
			continue
		}
		seen[e.Index] = struct{}{}
		names = append(names, e.Index)
	}
	sort.Strings(names)
	return names
}
