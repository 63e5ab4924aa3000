package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/dmitrymomot/searchkit/pkg/opensearch"
)

// Kind tells where the mappings of a collection come from.
type Kind string

const (
	// KindBackend mappings were read from the server.
	KindBackend Kind = "backend"
	// KindEntity mappings were derived from the entity schema.
	KindEntity Kind = "entity"
)

// Collection is an ordered set of type mappings of one kind.
type Collection struct {
	kind     Kind
	client   *opensearch.Client
	mappings []*opensearch.Mapping
	// sources maps a diff mapping to the mapping it was computed from.
	sources map[*opensearch.Mapping]*opensearch.Mapping
}

// NewCollection returns an empty collection of the given kind.
func NewCollection(kind Kind) *Collection {
	return &Collection{kind: kind}
}

func (c *Collection) Kind() Kind { return c.kind }

func (c *Collection) Client() *opensearch.Client { return c.client }

func (c *Collection) SetClient(client *opensearch.Client) { c.client = client }

func (c *Collection) Add(m *opensearch.Mapping) { c.mappings = append(c.mappings, m) }

func (c *Collection) Mappings() []*opensearch.Mapping { return c.mappings }

func (c *Collection) Len() int { return len(c.mappings) }

// Setting returns the value of key in property of the member mapping having
// the same type and index name as inquirer, or nil when there is none.
func (c *Collection) Setting(inquirer *opensearch.Mapping, property, key string) any {
	for _, m := range c.mappings {
		if sameType(inquirer.Type(), m.Type()) {
			return m.Property(property, key)
		}
	}
	return nil
}

// DiffAgainst returns, for every mapping of c, the property settings whose
// value differs from the one in complement. Mappings without differences
// are left out. The result has the kind and client of c.
func (c *Collection) DiffAgainst(complement *Collection) *Collection {
	diff := &Collection{
		kind:    c.kind,
		client:  c.client,
		sources: make(map[*opensearch.Mapping]*opensearch.Mapping),
	}
	for _, m := range c.mappings {
		changed := opensearch.NewMapping(m.Type())
		changed.DeleteProperty(opensearch.TypeField)

		save := false
		for _, property := range sortedKeys(m.Properties()) {
			settings, ok := m.Properties()[property].(map[string]any)
			if !ok {
				continue
			}
			for _, key := range sortedKeys(settings) {
				value := settings[key]
				if equalSetting(value, complement.Setting(m, property, key)) {
					continue
				}
				changed.SetProperty(value, property, key)
				save = true
			}
		}
		if save {
			diff.Add(changed)
			diff.sources[changed] = m
		}
	}
	return diff
}

// Apply puts every mapping of the collection to the server through the
// collection's client. Properties of a diff are sent together with the
// type and sub-fields of the mapping they were computed from, since the
// server reads a property without a type as an object.
func (c *Collection) Apply(ctx context.Context) error {
	if c.client == nil {
		return ErrNoClient
	}
	for _, m := range c.mappings {
		m.Type().Index().SetClient(c.client)
		if source, ok := c.sources[m]; ok {
			m = withDefinition(m, source)
		}
		if _, err := m.Apply(ctx); err != nil {
			return fmt.Errorf("apply mapping of %s/%s: %w", m.Type().Index().Name(), m.Type().Name(), err)
		}
	}
	return nil
}

// definitionKeys are copied from the source mapping into every drifted property.
var definitionKeys = []string{"type", "fields"}

func withDefinition(changed, source *opensearch.Mapping) *opensearch.Mapping {
	out := opensearch.NewMapping(changed.Type())
	out.DeleteProperty(opensearch.TypeField)
	for _, property := range sortedKeys(changed.Properties()) {
		settings, ok := changed.Properties()[property].(map[string]any)
		if !ok {
			continue
		}
		for _, key := range definitionKeys {
			if _, set := settings[key]; set {
				continue
			}
			if value := source.Property(property, key); value != nil {
				out.SetProperty(value, property, key)
			}
		}
		for _, key := range sortedKeys(settings) {
			out.SetProperty(settings[key], property, key)
		}
	}
	return out
}

func sameType(a, b *opensearch.Type) bool {
	return a.Name() == b.Name() && a.Index().OriginalName() == b.Index().OriginalName()
}

// equalSetting compares two setting values by their JSON form, so numbers
// decoded from a response equal the ones declared in code.
func equalSetting(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	if v == nil {
		return nil
	}
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

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
