package schema

// Kind is the declared value type of an entity field.
type Kind string

// Scalar kinds map onto the engine type of the same name; KindString maps
// to text and KindDateTime to date. Any other kind needs a transform.
const (
	KindString   Kind = "string"
	KindBoolean  Kind = "boolean"
	KindInteger  Kind = "integer"
	KindLong     Kind = "long"
	KindShort    Kind = "short"
	KindByte     Kind = "byte"
	KindFloat    Kind = "float"
	KindDouble   Kind = "double"
	KindKeyword  Kind = "keyword"
	KindDateTime Kind = "datetime"
	KindObject   Kind = "object"
	KindList     Kind = "list"
)

var scalarKinds = map[Kind]struct{}{
	KindBoolean: {},
	KindInteger: {},
	KindLong:    {},
	KindShort:   {},
	KindByte:    {},
	KindFloat:   {},
	KindDouble:  {},
	KindKeyword: {},
}

// IsScalar reports whether k maps 1:1 onto an engine field type.
func (k Kind) IsScalar() bool {
	_, ok := scalarKinds[k]
	return ok
}

// DefaultIDField is the record field holding the identifier when an entity
// does not name one.
const DefaultIDField = "id"

// Entity describes one indexable kind of domain object: where its documents
// live in the search engine and which of its fields are indexed.
type Entity struct {
	Name    string  `yaml:"name"`
	Index   string  `yaml:"index"`
	Type    string  `yaml:"type"`
	Source  string  `yaml:"source,omitempty"`
	IDField string  `yaml:"id_field,omitempty"`
	Fields  []Field `yaml:"fields"`
}

// SourceName returns the table or collection the entity is persisted in.
// It defaults to the entity name.
func (e Entity) SourceName() string {
	if e.Source != "" {
		return e.Source
	}
	return e.Name
}

// IdentifierField returns the field holding the record identifier.
func (e Entity) IdentifierField() string {
	if e.IDField != "" {
		return e.IDField
	}
	return DefaultIDField
}

// IndexedFields returns the fields marked as indexed, or every field when
// none is marked.
func (e Entity) IndexedFields() []Field {
	marked := make([]Field, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Indexed {
			marked = append(marked, f)
		}
	}
	if len(marked) > 0 {
		return marked
	}
	return e.Fields
}

// Field returns the field called name.
func (e Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Field is one property of an entity.
type Field struct {
	Name      string            `yaml:"name"`
	Kind      Kind              `yaml:"kind"`
	Indexed   bool              `yaml:"indexed,omitempty"`
	Transform *Transform        `yaml:"transform,omitempty"`
	Mapping   *MappingDirective `yaml:"mapping,omitempty"`
}

// Transform names the transformer converting the field value before it is
// written to a document, plus transformer specific options.
type Transform struct {
	Type    string         `yaml:"type"`
	Options map[string]any `yaml:"options,omitempty"`
}

// Option returns a string option or fallback when unset or empty.
func (t Transform) Option(name, fallback string) string {
	if v, ok := t.Options[name].(string); ok && v != "" {
		return v
	}
	return fallback
}

// MappingDirective overlays engine mapping parameters on the inferred field
// mapping. Unset parameters are left out. Fields declares multi-fields; each
// needs an IndexName unique within the field.
type MappingDirective struct {
	IndexName      string             `yaml:"index_name,omitempty"`
	Type           string             `yaml:"type,omitempty"`
	Index          *bool              `yaml:"index,omitempty"`
	Store          *bool              `yaml:"store,omitempty"`
	TermVector     string             `yaml:"term_vector,omitempty"`
	Boost          *float64           `yaml:"boost,omitempty"`
	Analyzer       string             `yaml:"analyzer,omitempty"`
	Normalizer     string             `yaml:"normalizer,omitempty"`
	SearchAnalyzer string             `yaml:"search_analyzer,omitempty"`
	Format         string             `yaml:"format,omitempty"`
	Properties     map[string]any     `yaml:"properties,omitempty"`
	Fielddata      *bool              `yaml:"fielddata,omitempty"`
	Fields         []MappingDirective `yaml:"fields,omitempty"`
}

// Parameters returns the set parameters keyed by their engine name.
// IndexName and Fields are not engine parameters and never included.
func (d MappingDirective) Parameters() map[string]any {
	params := make(map[string]any)
	setString := func(key, v string) {
		if v != "" {
			params[key] = v
		}
	}
	setString("type", d.Type)
	if d.Index != nil {
		params["index"] = *d.Index
	}
	if d.Store != nil {
		params["store"] = *d.Store
	}
	setString("term_vector", d.TermVector)
	if d.Boost != nil {
		params["boost"] = *d.Boost
	}
	setString("analyzer", d.Analyzer)
	setString("normalizer", d.Normalizer)
	setString("search_analyzer", d.SearchAnalyzer)
	setString("format", d.Format)
	if d.Properties != nil {
		params["properties"] = d.Properties
	}
	if d.Fielddata != nil {
		params["fielddata"] = *d.Fielddata
	}
	return params
}

// Record is a persisted instance of an entity as seen by the indexer.
type Record struct {
	Entity string         `json:"entity"`
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

// Value returns a field value of the record.
func (r Record) Value(name string) (any, bool) {
	v, ok := r.Values[name]
	return v, ok
}
