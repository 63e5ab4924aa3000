package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/config"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	entities, err := schema.Load("testdata/schema.yaml")
	require.NoError(t, err)
	require.Len(t, entities, 2)

	post := entities[0]
	assert.Equal(t, "post", post.Name)
	assert.Equal(t, "posts", post.SourceName())
	assert.Equal(t, "id", post.IdentifierField())

	title, ok := post.Field("title")
	require.True(t, ok)
	assert.Equal(t, schema.KindString, title.Kind)
	require.NotNil(t, title.Mapping)
	assert.Equal(t, map[string]any{"analyzer": "english", "boost": 2.0}, title.Mapping.Parameters())
	require.Len(t, title.Mapping.Fields, 1)
	assert.Equal(t, "raw", title.Mapping.Fields[0].IndexName)

	published, ok := post.Field("published_at")
	require.True(t, ok)
	require.NotNil(t, published.Transform)
	assert.Equal(t, "Date", published.Transform.Type)
	assert.Equal(t, "2006-01-02", published.Transform.Option("format", "x"))
	assert.Equal(t, "x", published.Transform.Option("timezone", "x"))

	author := entities[1]
	assert.Equal(t, "author", author.SourceName())
	assert.Equal(t, "uuid", author.IdentifierField())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := schema.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, config.ErrReadingFile)
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "schema.yaml")
		require.NoError(t, os.WriteFile(path, []byte("entities:\n  - name: post\n    indx: blog\n"), 0o600))
		_, err := schema.Load(path)
		assert.ErrorIs(t, err, config.ErrParsingFile)
	})

	t.Run("invalid declaration", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "schema.yaml")
		require.NoError(t, os.WriteFile(path, []byte("entities:\n  - name: post\n    type: post\n"), 0o600))
		_, err := schema.Load(path)
		assert.ErrorIs(t, err, schema.ErrInvalidEntity)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := schema.Entity{Name: "post", Index: "blog", Type: "post", Fields: []schema.Field{{Name: "title", Kind: schema.KindString}}}

	tests := []struct {
		name     string
		entities []schema.Entity
		want     []error
	}{
		{name: "valid", entities: []schema.Entity{valid}},
		{name: "empty", entities: nil},
		{
			name:     "missing name",
			entities: []schema.Entity{{Index: "blog", Type: "post"}},
			want:     []error{schema.ErrInvalidEntity},
		},
		{
			name:     "duplicate entity",
			entities: []schema.Entity{valid, valid},
			want:     []error{schema.ErrDuplicateEntity},
		},
		{
			name:     "missing index and type",
			entities: []schema.Entity{{Name: "post"}},
			want:     []error{schema.ErrInvalidEntity},
		},
		{
			name: "field problems",
			entities: []schema.Entity{{
				Name: "post", Index: "blog", Type: "post",
				Fields: []schema.Field{
					{Name: ""},
					{Name: "doc_type"},
					{Name: "title"},
					{Name: "title"},
					{Name: "body", Transform: &schema.Transform{}},
				},
			}},
			want: []error{schema.ErrInvalidField, schema.ErrDuplicateField},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := schema.Validate(tt.entities)
			if len(tt.want) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestEntity_IndexedFields(t *testing.T) {
	t.Parallel()

	all := schema.Entity{Fields: []schema.Field{{Name: "a"}, {Name: "b"}}}
	assert.Len(t, all.IndexedFields(), 2, "no marked field means every field is indexed")

	marked := schema.Entity{Fields: []schema.Field{{Name: "a"}, {Name: "b", Indexed: true}}}
	require.Len(t, marked.IndexedFields(), 1)
	assert.Equal(t, "b", marked.IndexedFields()[0].Name)

	_, ok := marked.Field("c")
	assert.False(t, ok)
}

func TestKind_IsScalar(t *testing.T) {
	t.Parallel()

	assert.True(t, schema.KindKeyword.IsScalar())
	assert.True(t, schema.KindDouble.IsScalar())
	assert.False(t, schema.KindString.IsScalar())
	assert.False(t, schema.KindDateTime.IsScalar())
	assert.False(t, schema.KindList.IsScalar())
}

func TestMappingDirective_Parameters(t *testing.T) {
	t.Parallel()

	no := false
	boost := 1.5
	d := schema.MappingDirective{
		IndexName:  "raw",
		Type:       "keyword",
		Index:      &no,
		Boost:      &boost,
		Properties: map[string]any{"x": map[string]any{"type": "long"}},
		Fields:     []schema.MappingDirective{{IndexName: "sub"}},
	}
	assert.Equal(t, map[string]any{
		"type":       "keyword",
		"index":      false,
		"boost":      1.5,
		"properties": map[string]any{"x": map[string]any{"type": "long"}},
	}, d.Parameters())
	assert.Empty(t, schema.MappingDirective{}.Parameters())
}

func TestRecord_Value(t *testing.T) {
	t.Parallel()

	r := schema.Record{Entity: "post", ID: "1", Values: map[string]any{"title": "hello"}}
	v, ok := r.Value("title")
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
	_, ok = r.Value("body")
	assert.False(t, ok)
}
