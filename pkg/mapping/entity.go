package mapping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/schema"
	"github.com/dmitrymomot/searchkit/pkg/transform"
)

// EntitySource lists the indexable entities and the fields to map.
type EntitySource interface {
	Entities() []schema.Entity
	IndexedFields(entity schema.Entity) []schema.Field
	AllIndexNames() []string
}

// EntityBuilder derives the mappings the entity schema asks for.
type EntityBuilder struct {
	entities     EntitySource
	transformers *transform.Registry
}

// NewEntityBuilder returns a builder. A nil registry means the built-in transformers.
func NewEntityBuilder(entities EntitySource, transformers *transform.Registry) *EntityBuilder {
	if transformers == nil {
		transformers = transform.NewRegistry()
	}
	return &EntityBuilder{entities: entities, transformers: transformers}
}

// Build returns one mapping per indexable entity.
func (b *EntityBuilder) Build() (*Collection, error) {
	collection := NewCollection(KindEntity)
	for _, e := range b.entities.Entities() {
		m, err := b.BuildEntity(e)
		if err != nil {
			return nil, err
		}
		collection.Add(m)
	}
	return collection, nil
}

// BuildEntity returns the mapping of a single entity. The index of the
// mapping is detached: it has no client until the mapping is applied.
func (b *EntityBuilder) BuildEntity(e schema.Entity) (*opensearch.Mapping, error) {
	index, err := opensearch.NewIndex(e.Index, nil)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", e.Name, err)
	}
	m := opensearch.NewMapping(opensearch.NewType(index, e.Type))
	for _, f := range b.entities.IndexedFields(e) {
		if err := b.addField(m, e, f); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (b *EntityBuilder) addField(m *opensearch.Mapping, e schema.Entity, f schema.Field) error {
	mappingType, err := b.fieldType(f)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", e.Name, f.Name, err)
	}

	property := map[string]any{"type": mappingType}
	if f.Mapping == nil {
		m.SetProperty(property, f.Name)
		return nil
	}

	for key, value := range f.Mapping.Parameters() {
		property[key] = value
	}
	m.SetProperty(property, f.Name)

	if len(f.Mapping.Fields) == 0 {
		return nil
	}
	multiFields := make(map[string]any, len(f.Mapping.Fields))
	for _, sub := range f.Mapping.Fields {
		name := strings.TrimSpace(sub.IndexName)
		if name == "" {
			return fmt.Errorf("%w: %s.%s", ErrMultiFieldName, e.Name, f.Name)
		}
		if _, ok := multiFields[name]; ok {
			return fmt.Errorf("%w: %q in %s.%s", ErrDuplicateMultiField, name, e.Name, f.Name)
		}
		params := sub.Parameters()
		if _, ok := params["type"]; !ok {
			params["type"] = mappingType
		}
		multiFields[name] = params
	}
	m.SetProperty(multiFields, f.Name, "fields")
	return nil
}

// fieldType resolves the engine type: a transform decides first, then the
// declared kind.
func (b *EntityBuilder) fieldType(f schema.Field) (string, error) {
	if f.Transform != nil {
		t, err := b.transformers.Get(f.Transform.Type)
		if err != nil {
			return "", err
		}
		return t.TargetMappingType(), nil
	}
	switch {
	case f.Kind == schema.KindString:
		return "text", nil
	case f.Kind.IsScalar():
		return string(f.Kind), nil
	case f.Kind == schema.KindDateTime:
		return "date", nil
	}
	return "", errors.Join(ErrUnsupportedType, fmt.Errorf("%q given without a transform", f.Kind))
}
