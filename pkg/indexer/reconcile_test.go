package indexer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/indexer"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/opensearch/opensearchtest"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

func seededEngine(t *testing.T) (*opensearchtest.Engine, *indexer.ObjectIndexer) {
	t.Helper()
	ctx := context.Background()
	engine := opensearchtest.NewEngine()
	oi := newTestIndexer(t, engine)

	require.NoError(t, oi.IndexObject(ctx, postRecord("1", "In sync")))
	require.NoError(t, oi.IndexObject(ctx, postRecord("2", "Outdated")))
	require.NoError(t, oi.IndexObject(ctx, postRecord("9", "Orphan")))
	engine.Reset()
	return engine, oi
}

func TestReconciler_Status(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, oi := seededEngine(t)

	source := &MockSource{}
	source.On("Count", mock.Anything, "post").Return(int64(3), nil)
	source.On("Records", mock.Anything, "post").Return([]schema.Record{
		postRecord("1", "In sync"),
		postRecord("2", "Changed"),
		postRecord("3", "New"),
	}, nil)

	r, err := indexer.NewReconciler(oi, source)
	require.NoError(t, err)

	statuses, err := r.Status(ctx, "post", false)
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	status := statuses[0]
	assert.False(t, status.HasErrors(), "%v", status.Err())
	assert.Equal(t, "post", status.Entity)
	assert.True(t, status.SearchCountOK)
	assert.Equal(t, int64(3), status.SearchCount)
	assert.True(t, status.SourceCountOK)
	assert.Equal(t, int64(3), status.SourceCount)
	assert.Equal(t, []string{"3"}, status.States[indexer.ActionCreate])
	assert.Equal(t, []string{"2"}, status.States[indexer.ActionUpdate])
	assert.Equal(t, []string{"9"}, status.States[indexer.ActionDelete])
	assert.Zero(t, status.Inserted)
	assert.Zero(t, status.Updated)

	for _, req := range engine.Requests() {
		assert.NotEqual(t, "PUT", req.Method, "status without update never writes")
	}
	source.AssertExpectations(t)
}

func TestReconciler_StatusWithUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, oi := seededEngine(t)

	source := &MockSource{}
	source.On("Count", mock.Anything, "post").Return(int64(3), nil)
	source.On("Records", mock.Anything, "post").Return([]schema.Record{
		postRecord("1", "In sync"),
		postRecord("2", "Changed"),
		postRecord("3", "New"),
	}, nil)

	r, err := indexer.NewReconciler(oi, source)
	require.NoError(t, err)

	statuses, err := r.Status(ctx, "post", true)
	require.NoError(t, err)
	status := statuses[0]
	assert.False(t, status.HasErrors())
	assert.Equal(t, 1, status.Inserted)
	assert.Equal(t, 1, status.Updated)

	doc, _, ok := engine.Document("test-blog", "2")
	require.True(t, ok)
	assert.Equal(t, "Changed", doc["title"])
	_, _, ok = engine.Document("test-blog", "3")
	assert.True(t, ok)
	_, _, ok = engine.Document("test-blog", "9")
	assert.True(t, ok, "orphans are reported, not deleted")
}

func TestReconciler_StatusErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing index", func(t *testing.T) {
		t.Parallel()
		oi := newTestIndexer(t, opensearchtest.NewEngine())
		source := &MockSource{}
		source.On("Count", mock.Anything, "author").Return(int64(0), nil)

		r, err := indexer.NewReconciler(oi, source)
		require.NoError(t, err)
		statuses, err := r.Status(ctx, "author", false)
		require.NoError(t, err)

		status := statuses[0]
		assert.True(t, status.HasErrors())
		assert.False(t, status.SearchCountOK)
		assert.True(t, status.SourceCountOK)
		assert.Empty(t, status.States[indexer.ActionCreate])
		source.AssertNotCalled(t, "Records", mock.Anything, mock.Anything)
	})

	t.Run("source failure", func(t *testing.T) {
		t.Parallel()
		_, oi := seededEngine(t)
		source := &MockSource{}
		source.On("Count", mock.Anything, "post").Return(int64(0), errors.New("relation does not exist"))

		r, err := indexer.NewReconciler(oi, source)
		require.NoError(t, err)
		statuses, err := r.Status(ctx, "post", true)
		require.NoError(t, err)

		status := statuses[0]
		assert.True(t, status.SearchCountOK)
		assert.False(t, status.SourceCountOK)
		assert.ErrorContains(t, status.Err(), "relation does not exist")
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()
		engine := opensearchtest.NewEngine()
		engine.FailWith(errors.New("connection refused"))
		oi := newTestIndexer(t, engine)
		source := &MockSource{}
		source.On("Count", mock.Anything, "post").Return(int64(1), nil)

		r, err := indexer.NewReconciler(oi, source)
		require.NoError(t, err)
		statuses, err := r.Status(ctx, "post", false)
		require.NoError(t, err)
		assert.ErrorIs(t, statuses[0].Err(), opensearch.ErrTransport)
	})

	t.Run("unknown entity", func(t *testing.T) {
		t.Parallel()
		r, err := indexer.NewReconciler(newTestIndexer(t, opensearchtest.NewEngine()), &MockSource{})
		require.NoError(t, err)
		_, err = r.Status(ctx, "user", false)
		assert.ErrorIs(t, err, indexer.ErrUnknownEntity)
	})

	t.Run("nil source", func(t *testing.T) {
		t.Parallel()
		_, err := indexer.NewReconciler(newTestIndexer(t, opensearchtest.NewEngine()), nil)
		assert.ErrorIs(t, err, indexer.ErrNilDependency)
	})
}

func TestReconciler_StatusAllEntities(t *testing.T) {
	t.Parallel()

	_, oi := seededEngine(t)
	source := &MockSource{}
	source.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)
	source.On("Records", mock.Anything, mock.Anything).Return([]schema.Record{}, nil)

	r, err := indexer.NewReconciler(oi, source)
	require.NoError(t, err)
	statuses, err := r.Status(context.Background(), "", false)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "post", statuses[0].Entity)
	assert.Equal(t, "author", statuses[1].Entity)
}

func TestReconciler_StatusOrphansOnTextMappedTypeField(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := opensearchtest.NewEngine()
	entity := schema.Entity{
		Name:  "news",
		Index: "blog",
		Type:  "NewsItem",
		Fields: []schema.Field{
			{Name: "id", Kind: schema.KindKeyword},
			{Name: "title", Kind: schema.KindString, Indexed: true},
		},
	}
	informer, err := indexer.NewInformer([]schema.Entity{entity})
	require.NoError(t, err)
	client := opensearch.NewClient("default",
		[]opensearch.ClientConfiguration{{Host: "localhost", Port: 9200}},
		engine,
		opensearch.WithIndexConfigurations(map[string]opensearch.IndexConfiguration{
			"blog": {"prefix": "test"},
		}),
	)
	oi, err := indexer.NewObjectIndexer(informer, client)
	require.NoError(t, err)

	news := func(id string) schema.Record {
		return schema.Record{Entity: "news", ID: id, Values: map[string]any{"id": id, "title": "Item " + id}}
	}
	require.NoError(t, oi.IndexObject(ctx, news("1")))
	require.NoError(t, oi.IndexObject(ctx, news("7")))
	engine.SetMapping("test-blog", map[string]any{
		"properties": map[string]any{
			opensearch.TypeField: map[string]any{
				"type":   "text",
				"fields": map[string]any{"keyword": map[string]any{"type": "keyword"}},
			},
		},
	})

	source := &MockSource{}
	source.On("Count", mock.Anything, "news").Return(int64(1), nil)
	source.On("Records", mock.Anything, "news").Return([]schema.Record{news("1")}, nil)

	r, err := indexer.NewReconciler(oi, source)
	require.NoError(t, err)

	statuses, err := r.Status(ctx, "news", false)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].HasErrors(), "%v", statuses[0].Err())
	assert.Equal(t, []string{"7"}, statuses[0].States[indexer.ActionDelete])
}
