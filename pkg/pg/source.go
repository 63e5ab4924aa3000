package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/searchkit/pkg/schema"
)

// Querier is the subset of *pgxpool.Pool, *pgx.Conn and pgx.Tx the Source uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Source reads entity records from one table per entity. The table is the
// entity source name; every column becomes a record value.
type Source struct {
	db     Querier
	schema string
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithSchema qualifies table names with a schema.
func WithSchema(name string) SourceOption {
	return func(s *Source) { s.schema = name }
}

// NewSource returns a source querying db.
func NewSource(db Querier, opts ...SourceOption) *Source {
	s := &Source{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Count returns the number of rows of the entity table.
func (s *Source) Count(ctx context.Context, e schema.Entity) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, "SELECT count(*) FROM "+s.table(e)).Scan(&n); err != nil {
		return 0, errors.Join(ErrQueryFailed, fmt.Errorf("count %s: %w", e.Name, err))
	}
	return n, nil
}

// Records calls fn for every row of the entity table, ordered by identifier.
// Iteration stops at the first error returned by fn.
func (s *Source) Records(ctx context.Context, e schema.Entity, fn func(schema.Record) error) error {
	idField := e.IdentifierField()
	sql := fmt.Sprintf("SELECT * FROM %s ORDER BY %s", s.table(e), pgx.Identifier{idField}.Sanitize())
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return errors.Join(ErrQueryFailed, fmt.Errorf("list %s: %w", e.Name, err))
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return errors.Join(ErrQueryFailed, fmt.Errorf("read %s row: %w", e.Name, err))
		}
		rec := schema.Record{Entity: e.Name, Values: make(map[string]any, len(fields))}
		for i, fd := range fields {
			if i < len(values) {
				rec.Values[fd.Name] = values[i]
			}
		}
		id, ok := rec.Values[idField]
		if !ok || id == nil {
			return fmt.Errorf("%w: %s row without %q", ErrMissingIdentifier, e.Name, idField)
		}
		rec.ID = identifier(id)
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Join(ErrQueryFailed, fmt.Errorf("list %s: %w", e.Name, err))
	}
	return nil
}

func (s *Source) table(e schema.Entity) string {
	if s.schema == "" {
		return pgx.Identifier{e.SourceName()}.Sanitize()
	}
	return pgx.Identifier{s.schema, e.SourceName()}.Sanitize()
}

// identifier renders an id column value; uuid columns decode to [16]byte.
func identifier(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case [16]byte:
		return uuid.UUID(id).String()
	case uuid.UUID:
		return id.String()
	default:
		return fmt.Sprint(v)
	}
}
