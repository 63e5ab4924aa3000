package mongo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/searchkit/pkg/mongo"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

type fakeCollection struct {
	count    int64
	docs     []any
	err      error
	findSort any
}

func (c *fakeCollection) CountDocuments(context.Context, any, ...options.Lister[options.CountOptions]) (int64, error) {
	return c.count, c.err
}

func (c *fakeCollection) Find(_ context.Context, _ any, opts ...options.Lister[options.FindOptions]) (*mongodriver.Cursor, error) {
	if c.err != nil {
		return nil, c.err
	}
	var findOpts options.FindOptions
	for _, o := range opts {
		for _, set := range o.List() {
			_ = set(&findOpts)
		}
	}
	c.findSort = findOpts.Sort
	return mongodriver.NewCursorFromDocuments(c.docs, nil, nil)
}

func sourceFor(collections map[string]*fakeCollection) *mongo.Source {
	return mongo.NewSourceFunc(func(name string) mongo.Collection {
		if c, ok := collections[name]; ok {
			return c
		}
		return &fakeCollection{err: errors.New("ns not found")}
	})
}

var postEntity = schema.Entity{Name: "post", Index: "blog", Type: "post", Source: "posts"}

func TestSource_Count(t *testing.T) {
	t.Parallel()

	source := sourceFor(map[string]*fakeCollection{"posts": {count: 12}})
	n, err := source.Count(context.Background(), postEntity)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	_, err = source.Count(context.Background(), schema.Entity{Name: "user"})
	assert.ErrorIs(t, err, mongo.ErrQueryFailed)
}

func TestSource_Records(t *testing.T) {
	t.Parallel()

	oid := bson.NewObjectID()
	published := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	posts := &fakeCollection{docs: []any{
		bson.D{
			{Key: "_id", Value: oid},
			{Key: "title", Value: "First"},
			{Key: "published_at", Value: bson.NewDateTimeFromTime(published)},
			{Key: "tags", Value: bson.A{"go", "search"}},
			{Key: "author", Value: bson.D{{Key: "name", Value: "Ann"}}},
		},
	}}
	source := sourceFor(map[string]*fakeCollection{"posts": posts})

	var got []schema.Record
	err := source.Records(context.Background(), postEntity, func(rec schema.Record) error {
		got = append(got, rec)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, posts.findSort)

	require.Len(t, got, 1)
	rec := got[0]
	assert.Equal(t, "post", rec.Entity)
	assert.Equal(t, oid.Hex(), rec.ID)
	assert.Equal(t, "First", rec.Values["title"])
	assert.Equal(t, published, rec.Values["published_at"])
	assert.Equal(t, []any{"go", "search"}, rec.Values["tags"])
	assert.Equal(t, map[string]any{"name": "Ann"}, rec.Values["author"])
}

func TestSource_RecordsErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	noop := func(schema.Record) error { return nil }

	err := sourceFor(nil).Records(ctx, postEntity, noop)
	assert.ErrorIs(t, err, mongo.ErrQueryFailed)

	custom := postEntity
	custom.IDField = "slug"
	source := sourceFor(map[string]*fakeCollection{"posts": {docs: []any{bson.D{{Key: "title", Value: "x"}}}}})
	assert.ErrorIs(t, source.Records(ctx, custom, noop), mongo.ErrMissingIdentifier)

	stop := errors.New("stop")
	source = sourceFor(map[string]*fakeCollection{"posts": {docs: []any{
		bson.D{{Key: "_id", Value: "a"}},
		bson.D{{Key: "_id", Value: "b"}},
	}}})
	calls := 0
	err = source.Records(ctx, postEntity, func(schema.Record) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
