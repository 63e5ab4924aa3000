package transform

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Transformer converts a field value before it is written to a document and
// names the engine mapping type of the converted value.
type Transformer interface {
	TargetMappingType() string
	Transform(source any, options map[string]any) (any, error)
}

// Built-in transformer names.
const (
	Date                 = "Date"
	TextCast             = "TextCast"
	StringCast           = "StringCast"
	CollectionStringCast = "CollectionStringCast"
)

// Registry resolves transformers by name. Lookups ignore case.
type Registry struct {
	mu           sync.RWMutex
	transformers map[string]Transformer
}

// NewRegistry returns a registry holding the built-in transformers.
func NewRegistry() *Registry {
	r := &Registry{transformers: make(map[string]Transformer)}
	r.Register(Date, DateTransformer{})
	r.Register(TextCast, TextCastTransformer{})
	r.Register(StringCast, StringCastTransformer{})
	r.Register(CollectionStringCast, CollectionStringCastTransformer{})
	return r
}

// Register adds t under name, replacing any transformer of the same name.
func (r *Registry) Register(name string, t Transformer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transformers[strings.ToLower(name)] = t
}

// Get returns the transformer registered under name.
func (r *Registry) Get(name string) (Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transformers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransformer, name)
	}
	return t, nil
}

// Names returns the registered names in lower case, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.transformers))
	for name := range r.transformers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
