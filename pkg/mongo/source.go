package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/searchkit/pkg/schema"
)

// DefaultIDField is the identifier field of documents when an entity does
// not name one.
const DefaultIDField = "_id"

// Collection is the subset of *mongo.Collection the Source uses.
type Collection interface {
	CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error)
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
}

// Source reads entity records from one collection per entity, named after
// the entity source name.
type Source struct {
	collection func(name string) Collection
}

// NewSource returns a source reading from db.
func NewSource(db *mongo.Database) *Source {
	return NewSourceFunc(func(name string) Collection { return db.Collection(name) })
}

// NewSourceFunc returns a source resolving collections through fn.
func NewSourceFunc(fn func(name string) Collection) *Source {
	return &Source{collection: fn}
}

// Count returns the number of documents of the entity collection.
func (s *Source) Count(ctx context.Context, e schema.Entity) (int64, error) {
	n, err := s.collection(e.SourceName()).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Join(ErrQueryFailed, fmt.Errorf("count %s: %w", e.Name, err))
	}
	return n, nil
}

// Records calls fn for every document of the entity collection, ordered by
// identifier. Iteration stops at the first error returned by fn.
func (s *Source) Records(ctx context.Context, e schema.Entity, fn func(schema.Record) error) error {
	idField := e.IDField
	if idField == "" {
		idField = DefaultIDField
	}

	cursor, err := s.collection(e.SourceName()).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: idField, Value: 1}}))
	if err != nil {
		return errors.Join(ErrQueryFailed, fmt.Errorf("list %s: %w", e.Name, err))
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return errors.Join(ErrQueryFailed, fmt.Errorf("decode %s document: %w", e.Name, err))
		}
		values, _ := normalize(doc).(map[string]any)
		id, ok := values[idField]
		if !ok || id == nil {
			return fmt.Errorf("%w: %s document without %q", ErrMissingIdentifier, e.Name, idField)
		}
		if err := fn(schema.Record{Entity: e.Name, ID: fmt.Sprint(id), Values: values}); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return errors.Join(ErrQueryFailed, fmt.Errorf("list %s: %w", e.Name, err))
	}
	return nil
}

// normalize turns BSON specific values into plain Go values: documents into
// maps, arrays into slices, object ids into their hex form and datetimes
// into time.Time.
func normalize(v any) any {
	switch val := v.(type) {
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, elem := range val {
			out[elem.Key] = normalize(elem.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case bson.ObjectID:
		return val.Hex()
	case bson.DateTime:
		return val.Time().UTC()
	default:
		return v
	}
}
