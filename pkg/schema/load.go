package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/searchkit/pkg/config"
)

// reservedFields cannot be declared by an entity; the indexer writes them.
var reservedFields = map[string]struct{}{
	"doc_type": {},
}

// File is the layout of a schema file.
type File struct {
	Entities []Entity `yaml:"entities"`
}

// Load reads and validates the entities declared in the YAML file at path.
func Load(path string) ([]Entity, error) {
	var f File
	if err := config.LoadYAML(path, &f); err != nil {
		return nil, err
	}
	if err := Validate(f.Entities); err != nil {
		return nil, err
	}
	return f.Entities, nil
}

// Validate checks entity and field declarations. All problems are reported
// together.
func Validate(entities []Entity) error {
	var errs []error
	seen := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%w: entity #%d has no name", ErrInvalidEntity, i))
			continue
		}
		if _, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateEntity, name))
			continue
		}
		seen[name] = struct{}{}

		if strings.TrimSpace(e.Index) == "" {
			errs = append(errs, fmt.Errorf("%w: %s has no index", ErrInvalidEntity, name))
		}
		if strings.TrimSpace(e.Type) == "" {
			errs = append(errs, fmt.Errorf("%w: %s has no type", ErrInvalidEntity, name))
		}
		errs = append(errs, validateFields(e)...)
	}
	return errors.Join(errs...)
}

func validateFields(e Entity) []error {
	var errs []error
	seen := make(map[string]struct{}, len(e.Fields))
	for i, f := range e.Fields {
		if strings.TrimSpace(f.Name) == "" {
			errs = append(errs, fmt.Errorf("%w: field #%d of %s has no name", ErrInvalidField, i, e.Name))
			continue
		}
		if _, ok := reservedFields[f.Name]; ok {
			errs = append(errs, fmt.Errorf("%w: %s.%s is reserved", ErrInvalidField, e.Name, f.Name))
			continue
		}
		if _, ok := seen[f.Name]; ok {
			errs = append(errs, fmt.Errorf("%w: %s.%s", ErrDuplicateField, e.Name, f.Name))
			continue
		}
		seen[f.Name] = struct{}{}

		if f.Transform != nil && strings.TrimSpace(f.Transform.Type) == "" {
			errs = append(errs, fmt.Errorf("%w: %s.%s declares a transform without type", ErrInvalidField, e.Name, f.Name))
		}
	}
	return errs
}
