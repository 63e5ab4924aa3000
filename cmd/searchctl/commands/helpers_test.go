package commands_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/searchkit/cmd/searchctl/commands"
	"github.com/dmitrymomot/searchkit/pkg/httpserver"
	"github.com/dmitrymomot/searchkit/pkg/indexer"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/opensearch/opensearchtest"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

// memorySource serves records from memory.
type memorySource struct {
	records map[string][]schema.Record
	err     error
}

func (s *memorySource) Count(_ context.Context, e schema.Entity) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.records[e.Name])), nil
}

func (s *memorySource) Records(_ context.Context, e schema.Entity, fn func(schema.Record) error) error {
	if s.err != nil {
		return s.err
	}
	for _, rec := range s.records[e.Name] {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func testEntities() []schema.Entity {
	return []schema.Entity{
		{
			Name:  "post",
			Index: "blog",
			Type:  "post",
			Fields: []schema.Field{
				{Name: "id", Kind: schema.KindKeyword},
				{Name: "title", Kind: schema.KindString, Indexed: true},
				{Name: "views", Kind: schema.KindInteger, Indexed: true},
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

func post(id, title string) schema.Record {
	return schema.Record{Entity: "post", ID: id, Values: map[string]any{"id": id, "title": title, "views": 3}}
}

type testApp struct {
	*commands.App
	engine *opensearchtest.Engine
	source *memorySource
	out    *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	informer, err := indexer.NewInformer(testEntities())
	require.NoError(t, err)

	engine := opensearchtest.NewEngine()
	source := &memorySource{records: map[string][]schema.Record{}}
	out := &bytes.Buffer{}

	app := &commands.App{
		Settings: opensearch.Settings{
			Clients: map[string][]opensearch.ClientConfiguration{
				"default": {{Host: "localhost", Port: 9200}},
			},
			Indexes: map[string]map[string]opensearch.IndexConfiguration{
				"default": {"blog": {
					"prefix":   "test",
					"settings": map[string]any{"index": map[string]any{"number_of_replicas": 2}},
				}},
			},
		},
		Informer: informer,
		Logger:   slog.New(slog.DiscardHandler),
		Out:      out,
		Transport: func(opensearch.ClientConfiguration, opensearch.TransferSettings) (opensearch.Transport, error) {
			return engine, nil
		},
		OpenSource: func(context.Context) (indexer.Source, httpserver.Check, func(), error) {
			return source, func(context.Context) error { return source.err }, func() {}, nil
		},
		OpenQueue: func(context.Context) (indexer.Queue, httpserver.Check, func(), error) {
			return nil, nil, nil, errors.New("no queue in tests")
		},
	}
	return &testApp{App: app, engine: engine, source: source, out: out}
}

// loadTestApp builds the App the way main does, from cfg, with the search
// engine and the record source replaced by in-memory ones.
func loadTestApp(t *testing.T, cfg commands.Config) *testApp {
	t.Helper()

	app, err := commands.Load(cfg)
	require.NoError(t, err)

	engine := opensearchtest.NewEngine()
	source := &memorySource{records: map[string][]schema.Record{}}
	out := &bytes.Buffer{}

	app.Logger = slog.New(slog.DiscardHandler)
	app.Out = out
	app.Transport = func(opensearch.ClientConfiguration, opensearch.TransferSettings) (opensearch.Transport, error) {
		return engine, nil
	}
	app.OpenSource = func(context.Context) (indexer.Source, httpserver.Check, func(), error) {
		return source, func(context.Context) error { return source.err }, func() {}, nil
	}
	return &testApp{App: app, engine: engine, source: source, out: out}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes searchctl with args, without exiting the test binary on
// exit errors.
func (a *testApp) run(args ...string) error {
	a.out.Reset()
	cmd := a.Command()
	cmd.Writer = &bytes.Buffer{}
	cmd.ErrWriter = &bytes.Buffer{}
	cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	return cmd.Run(context.Background(), append([]string{"searchctl"}, args...))
}

func requireExit(t *testing.T, err error, message string) {
	t.Helper()
	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	require.Equal(t, 1, exit.ExitCode())
	require.Contains(t, exit.Error(), message)
}
