package mapping

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/dmitrymomot/searchkit/pkg/opensearch"
)

// BackendBuilder reads the mappings currently stored on the server for the
// indexes of the entity schema.
type BackendBuilder struct {
	client   *opensearch.Client
	entities EntitySource

	built                         bool
	indicesWithoutTypeInformation []string
}

// NewBackendBuilder returns a builder reading through client.
func NewBackendBuilder(client *opensearch.Client, entities EntitySource) *BackendBuilder {
	return &BackendBuilder{client: client, entities: entities}
}

// Build fetches GET /_mapping and returns the mappings of the known indexes.
// The typeless properties of an index are attached to every type the schema
// registers for it; legacy per-type mappings are read as they are.
func (b *BackendBuilder) Build(ctx context.Context) (*Collection, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}

	resp, err := b.client.Request(ctx, http.MethodGet, "/_mapping", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch mappings: %w", err)
	}
	var content map[string]struct {
		Mappings map[string]any `json:"mappings"`
	}
	if err := resp.Decode(&content); err != nil {
		return nil, fmt.Errorf("decode mappings: %w", err)
	}

	types := b.registeredTypes()
	collection := NewCollection(KindBackend)
	collection.SetClient(b.client)
	b.indicesWithoutTypeInformation = []string{}

	names := b.entities.AllIndexNames()
	sort.Strings(names)
	for _, name := range names {
		configured, err := b.client.FindIndex(name)
		if err != nil {
			return nil, err
		}
		settings, ok := content[configured.Name()]
		if !ok {
			continue
		}
		if len(settings.Mappings) == 0 {
			b.indicesWithoutTypeInformation = append(b.indicesWithoutTypeInformation, name)
			continue
		}

		index, err := opensearch.NewIndex(name, nil)
		if err != nil {
			return nil, err
		}
		if properties, ok := settings.Mappings["properties"].(map[string]any); ok {
			for _, typeName := range types[name] {
				collection.Add(backendMapping(index, typeName, properties))
			}
			continue
		}
		for _, typeName := range sortedKeys(settings.Mappings) {
			typeSettings, ok := settings.Mappings[typeName].(map[string]any)
			if !ok {
				continue
			}
			properties, _ := typeSettings["properties"].(map[string]any)
			collection.Add(backendMapping(index, typeName, properties))
		}
	}

	b.built = true
	return collection, nil
}

// IndicesWithoutTypeInformation returns the known indexes that exist on the
// server without any mapping. It fails with ErrNotBuilt before Build.
func (b *BackendBuilder) IndicesWithoutTypeInformation() ([]string, error) {
	if !b.built {
		return nil, ErrNotBuilt
	}
	return b.indicesWithoutTypeInformation, nil
}

func (b *BackendBuilder) registeredTypes() map[string][]string {
	types := make(map[string][]string)
	seen := make(map[[2]string]struct{})
	for _, e := range b.entities.Entities() {
		key := [2]string{e.Index, e.Type}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		types[e.Index] = append(types[e.Index], e.Type)
	}
	return types
}

func backendMapping(index *opensearch.Index, typeName string, properties map[string]any) *opensearch.Mapping {
	m := opensearch.NewMapping(opensearch.NewType(index, typeName))
	m.DeleteProperty(opensearch.TypeField)
	for property, raw := range properties {
		settings, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for key, value := range settings {
			m.SetProperty(value, property, key)
		}
	}
	return m
}
