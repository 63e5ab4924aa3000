package mapping_test

import (
	"sort"
	"testing"

	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/opensearch/opensearchtest"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

type entitySource struct {
	entities []schema.Entity
}

func (s entitySource) Entities() []schema.Entity { return s.entities }

func (s entitySource) IndexedFields(e schema.Entity) []schema.Field { return e.IndexedFields() }

func (s entitySource) AllIndexNames() []string {
	seen := map[string]struct{}{}
	var names []string
	for _, e := range s.entities {
		if _, ok := seen[e.Index]; !ok {
			seen[e.Index] = struct{}{}
			names = append(names, e.Index)
		}
	}
	sort.Strings(names)
	return names
}

func tweetEntity() schema.Entity {
	return schema.Entity{
		Name:  "tweet",
		Index: "twitter",
		Type:  "tweet",
		Fields: []schema.Field{
			{Name: "id", Kind: schema.KindKeyword},
			{Name: "message", Kind: schema.KindString, Mapping: &schema.MappingDirective{Analyzer: "english"}},
			{Name: "retweets", Kind: schema.KindInteger},
		},
	}
}

func newTestClient(t *testing.T, engine *opensearchtest.Engine) *opensearch.Client {
	t.Helper()
	return opensearch.NewClient("default",
		[]opensearch.ClientConfiguration{{Host: "localhost", Port: 9200}},
		engine,
		opensearch.WithIndexConfigurations(map[string]opensearch.IndexConfiguration{
			"twitter": {"prefix": "dev"},
		}),
	)
}
