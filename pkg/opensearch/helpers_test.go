package opensearch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/opensearch/opensearchtest"
)

func newTestClient(t *testing.T, engine *opensearchtest.Engine, indexes map[string]opensearch.IndexConfiguration) *opensearch.Client {
	t.Helper()
	return opensearch.NewClient("default",
		[]opensearch.ClientConfiguration{{Host: "localhost", Port: 9200}},
		engine,
		opensearch.WithIndexConfigurations(indexes),
	)
}

func newTestType(t *testing.T, engine *opensearchtest.Engine, indexName, typeName string) *opensearch.Type {
	t.Helper()
	client := newTestClient(t, engine, nil)
	index, err := client.FindIndex(indexName)
	require.NoError(t, err)
	return index.FindType(typeName)
}
