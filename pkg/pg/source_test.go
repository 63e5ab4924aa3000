package pg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/pg"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

type fakeRow struct {
	count int64
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.count
	return nil
}

type fakeRows struct {
	columns []string
	rows    [][]any
	pos     int
	closed  bool
	err     error
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}
func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}
func (r *fakeRows) Scan(...any) error      { return errors.New("not supported") }
func (r *fakeRows) Values() ([]any, error) { return r.rows[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

type fakeQuerier struct {
	queries []string
	row     fakeRow
	rows    *fakeRows
	err     error
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, sql)
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	return q.row
}

var postEntity = schema.Entity{Name: "post", Index: "blog", Type: "post", Source: "blog_posts"}

func TestSource_Count(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{row: fakeRow{count: 7}}
	n, err := pg.NewSource(q, pg.WithSchema("content")).Count(context.Background(), postEntity)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, []string{`SELECT count(*) FROM "content"."blog_posts"`}, q.queries)

	q = &fakeQuerier{row: fakeRow{err: errors.New("relation does not exist")}}
	_, err = pg.NewSource(q).Count(context.Background(), postEntity)
	assert.ErrorIs(t, err, pg.ErrQueryFailed)
	assert.ErrorContains(t, err, "relation does not exist")
}

func TestSource_Records(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("0b6f8f0e-6c1f-4a55-9d7e-3f4d1b2a9c10")
	rows := &fakeRows{
		columns: []string{"id", "title"},
		rows: [][]any{
			{[16]byte(id), "First"},
			{int64(2), "Second"},
		},
	}
	q := &fakeQuerier{rows: rows}

	var got []schema.Record
	err := pg.NewSource(q).Records(context.Background(), postEntity, func(rec schema.Record) error {
		got = append(got, rec)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, rows.closed)
	assert.Equal(t, []string{`SELECT * FROM "blog_posts" ORDER BY "id"`}, q.queries)

	require.Len(t, got, 2)
	assert.Equal(t, "post", got[0].Entity)
	assert.Equal(t, id.String(), got[0].ID)
	assert.Equal(t, "First", got[0].Values["title"])
	assert.Equal(t, "2", got[1].ID)
}

func TestSource_RecordsErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	noop := func(schema.Record) error { return nil }

	q := &fakeQuerier{err: errors.New("syntax error")}
	assert.ErrorIs(t, pg.NewSource(q).Records(ctx, postEntity, noop), pg.ErrQueryFailed)

	q = &fakeQuerier{rows: &fakeRows{columns: []string{"title"}, rows: [][]any{{"no id"}}}}
	assert.ErrorIs(t, pg.NewSource(q).Records(ctx, postEntity, noop), pg.ErrMissingIdentifier)

	q = &fakeQuerier{rows: &fakeRows{columns: []string{"id"}, rows: [][]any{{"1"}, {"2"}}}}
	stop := errors.New("stop")
	calls := 0
	err := pg.NewSource(q).Records(ctx, postEntity, func(schema.Record) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)

	q = &fakeQuerier{rows: &fakeRows{err: errors.New("conn reset")}}
	assert.ErrorIs(t, pg.NewSource(q).Records(ctx, postEntity, noop), pg.ErrQueryFailed)
}
