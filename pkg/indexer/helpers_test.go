package indexer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/indexer"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/opensearch/opensearchtest"
	"github.com/dmitrymomot/searchkit/pkg/schema"
	"github.com/dmitrymomot/searchkit/pkg/transform"
)

func testEntities() []schema.Entity {
	return []schema.Entity{
		{
			Name:  "post",
			Index: "blog",
			Type:  "post",
			Fields: []schema.Field{
				{Name: "id", Kind: schema.KindKeyword},
				{Name: "title", Kind: schema.KindString, Indexed: true},
				{Name: "published_at", Kind: schema.KindDateTime, Indexed: true, Transform: &schema.Transform{Type: transform.Date}},
				{Name: "tags", Kind: schema.KindList, Indexed: true, Transform: &schema.Transform{Type: transform.CollectionStringCast}},
			},
		},
		{
			Name:  "author",
			Index: "blog",
			Type:  "author",
			Fields: []schema.Field{
				{Name: "name", Kind: schema.KindString},
			},
		},
	}
}

func postRecord(id, title string) schema.Record {
	return schema.Record{
		Entity: "post",
		ID:     id,
		Values: map[string]any{
			"id":           id,
			"title":        title,
			"published_at": time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			"tags":         []any{"go", 42},
			"draft":        true,
		},
	}
}

func newTestIndexer(t *testing.T, engine *opensearchtest.Engine) *indexer.ObjectIndexer {
	t.Helper()
	informer, err := indexer.NewInformer(testEntities())
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
	return oi
}
