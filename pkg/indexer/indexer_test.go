package indexer_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/indexer"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/opensearch/opensearchtest"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

func TestNewObjectIndexer_NilDependencies(t *testing.T) {
	t.Parallel()

	_, err := indexer.NewObjectIndexer(nil, nil)
	assert.ErrorIs(t, err, indexer.ErrNilDependency)
}

func TestObjectIndexer_DocumentData(t *testing.T) {
	t.Parallel()

	oi := newTestIndexer(t, opensearchtest.NewEngine())

	data, err := oi.DocumentData(postRecord("1", "Hello"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"title":        "Hello",
		"published_at": "2024-03-05",
		"tags":         []string{"go", "42"},
	}, data, "only indexed fields are written, transformed")

	partial := schema.Record{Entity: "post", ID: "2", Values: map[string]any{"title": "Only title"}}
	data, err = oi.DocumentData(partial)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Only title"}, data)

	broken := postRecord("3", "Broken")
	broken.Values["tags"] = "not a list"
	_, err = oi.DocumentData(broken)
	assert.Error(t, err)

	_, err = oi.DocumentData(schema.Record{Entity: "user", ID: "1"})
	assert.ErrorIs(t, err, indexer.ErrUnknownEntity)
}

func TestObjectIndexer_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := opensearchtest.NewEngine()
	oi := newTestIndexer(t, engine)

	require.NoError(t, oi.OnPersisted(ctx, postRecord("1", "Hello")))
	last := engine.LastRequest()
	assert.Equal(t, http.MethodPut, last.Method)
	assert.Equal(t, "/test-blog/_doc/1", last.Path)

	source, version, ok := engine.Document("test-blog", "1")
	require.True(t, ok)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, "post", source[opensearch.TypeField])
	assert.Equal(t, "Hello", source["title"])

	require.NoError(t, oi.OnUpdated(ctx, postRecord("1", "Hello again")))
	source, version, ok = engine.Document("test-blog", "1")
	require.True(t, ok)
	assert.Equal(t, int64(2), version, "one update increments the version once")
	assert.Equal(t, "Hello again", source["title"])

	require.NoError(t, oi.OnRemoved(ctx, postRecord("1", "")))
	_, _, ok = engine.Document("test-blog", "1")
	assert.False(t, ok)

	require.NoError(t, oi.OnRemoved(ctx, postRecord("1", "")), "removing a missing document is not an error")
}

func TestObjectIndexer_IgnoresUnknownEntities(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := opensearchtest.NewEngine()
	oi := newTestIndexer(t, engine)

	rec := schema.Record{Entity: "user", ID: "1", Values: map[string]any{"name": "x"}}
	require.NoError(t, oi.OnPersisted(ctx, rec))
	require.NoError(t, oi.OnUpdated(ctx, rec))
	require.NoError(t, oi.OnRemoved(ctx, rec))
	assert.Empty(t, engine.Requests())

	assert.ErrorIs(t, oi.IndexObject(ctx, rec), indexer.ErrUnknownEntity)
}

func TestObjectIndexer_TransportFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := opensearchtest.NewEngine()
	engine.FailWith(errors.New("connection refused"))
	oi := newTestIndexer(t, engine)

	assert.ErrorIs(t, oi.OnPersisted(ctx, postRecord("1", "Hello")), opensearch.ErrTransport)
	assert.ErrorIs(t, oi.OnRemoved(ctx, postRecord("1", "Hello")), opensearch.ErrTransport)
	_, err := oi.ActionRequired(ctx, postRecord("1", "Hello"))
	assert.ErrorIs(t, err, opensearch.ErrTransport)
}

func TestObjectIndexer_ActionRequired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := opensearchtest.NewEngine()
	oi := newTestIndexer(t, engine)

	action, err := oi.ActionRequired(ctx, postRecord("1", "Hello"))
	require.NoError(t, err)
	assert.Equal(t, indexer.ActionCreate, action, "index does not exist yet")

	require.NoError(t, oi.IndexObject(ctx, postRecord("1", "Hello")))

	action, err = oi.ActionRequired(ctx, postRecord("1", "Hello"))
	require.NoError(t, err)
	assert.Equal(t, indexer.ActionNone, action)

	action, err = oi.ActionRequired(ctx, postRecord("1", "Changed"))
	require.NoError(t, err)
	assert.Equal(t, indexer.ActionUpdate, action)

	action, err = oi.ActionRequired(ctx, postRecord("2", "Hello"))
	require.NoError(t, err)
	assert.Equal(t, indexer.ActionCreate, action)

	engine.PutDocument("test-blog", "3", map[string]any{opensearch.TypeField: "author", "title": "Hello"})
	action, err = oi.ActionRequired(ctx, postRecord("3", "Hello"))
	require.NoError(t, err)
	assert.Equal(t, indexer.ActionUpdate, action, "a document of another type is overwritten")
}
