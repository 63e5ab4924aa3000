package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TypeField is the reserved document field holding the type name.
const TypeField = "doc_type"

// Mapping is the field-mapping definition of a type.
type Mapping struct {
	typ              *Type
	properties       map[string]any
	dynamicTemplates []map[string]any
	fullMapping      map[string]any
}

// NewMapping creates a mapping for t seeded with the type discriminator field.
func NewMapping(t *Type) *Mapping {
	return &Mapping{
		typ: t,
		properties: map[string]any{
			TypeField: map[string]any{"type": "keyword"},
		},
	}
}

// Type returns the type the mapping belongs to.
func (m *Mapping) Type() *Type { return m.typ }

// Property returns the property setting found at path, or nil.
func (m *Mapping) Property(path ...string) any {
	v, _ := valueByPath(m.properties, path)
	return v
}

// SetProperty stores value at path below the properties.
func (m *Mapping) SetProperty(value any, path ...string) {
	m.properties = setValueByPath(m.properties, path, value)
}

// DeleteProperty removes the top-level property name.
func (m *Mapping) DeleteProperty(name string) {
	delete(m.properties, name)
}

// Properties returns the field mappings keyed by field name.
func (m *Mapping) Properties() map[string]any { return m.properties }

// DynamicTemplates returns the dynamic templates in declaration order.
func (m *Mapping) DynamicTemplates() []map[string]any { return m.dynamicTemplates }

// AddDynamicTemplate appends a named dynamic template.
func (m *Mapping) AddDynamicTemplate(name string, configuration map[string]any) {
	m.dynamicTemplates = append(m.dynamicTemplates, map[string]any{name: configuration})
}

// FullMapping returns the raw mapping merged over properties and templates.
func (m *Mapping) FullMapping() map[string]any { return m.fullMapping }

// SetFullMapping sets arbitrary raw mapping options, merged last.
func (m *Mapping) SetFullMapping(full map[string]any) { m.fullMapping = full }

// AsMap returns the mapping body as it is sent to the server.
func (m *Mapping) AsMap() map[string]any {
	templates := m.dynamicTemplates
	if templates == nil {
		templates = []map[string]any{}
	}
	return mergeRecursive(map[string]any{
		"dynamic_templates": templates,
		"properties":        m.properties,
	}, m.fullMapping)
}

// Apply puts the mapping to the index of its type.
func (m *Mapping) Apply(ctx context.Context) (*Response, error) {
	body, err := json.Marshal(m.AsMap())
	if err != nil {
		return nil, fmt.Errorf("encode mapping: %w", err)
	}
	return m.typ.Request(ctx, http.MethodPut, "/_mapping", nil, body)
}
