package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/searchkit/pkg/config"
	"github.com/dmitrymomot/searchkit/pkg/httpserver"
	"github.com/dmitrymomot/searchkit/pkg/indexer"
	"github.com/dmitrymomot/searchkit/pkg/logger"
	"github.com/dmitrymomot/searchkit/pkg/mongo"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/pg"
	"github.com/dmitrymomot/searchkit/pkg/redis"
	"github.com/dmitrymomot/searchkit/pkg/schema"
)

// Record sources selectable with SEARCHKIT_SOURCE.
const (
	SourcePostgres = "postgres"
	SourceMongoDB  = "mongodb"
)

// ErrUnknownSource is returned for an unsupported SEARCHKIT_SOURCE value.
var ErrUnknownSource = errors.New("unknown record source")

// Config holds the process level settings of searchctl.
type Config struct {
	SettingsFile string `env:"SEARCHKIT_SETTINGS_FILE" envDefault:"searchkit.yaml"`
	SchemaFile   string `env:"SEARCHKIT_SCHEMA_FILE" envDefault:"schema.yaml"`
	LogLevel     string `env:"SEARCHKIT_LOG_LEVEL"`
	LogFormat    string `env:"SEARCHKIT_LOG_FORMAT"`
	Environment  string `env:"SEARCHKIT_ENV" envDefault:"development"`
	Source       string `env:"SEARCHKIT_SOURCE" envDefault:"postgres"`
}

// Opener connects to an external dependency. The returned check backs the
// health command and the worker's readiness probe; close releases the
// connection.
type Opener[T any] func(ctx context.Context) (value T, check httpserver.Check, close func(), err error)

// App holds what the commands share.
type App struct {
	Settings opensearch.Settings
	Informer *indexer.Informer
	Logger   *slog.Logger
	Out      io.Writer

	// Transport replaces the opensearch-go transport when set.
	Transport opensearch.TransportFunc

	OpenSource Opener[indexer.Source]
	OpenQueue  Opener[indexer.Queue]

	// Files read on first use. Empty paths keep Settings and Informer as set.
	settingsFile string
	schemaFile   string
}

// Load builds the App from cfg: the logger and the openers of the configured
// record source and the Redis queue. The settings and schema files are read
// by the commands that need them, so help output works without them.
func Load(cfg Config) (*App, error) {
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	openSource, err := sourceOpener(cfg.Source)
	if err != nil {
		return nil, err
	}

	return &App{
		Logger:       log,
		Out:          os.Stdout,
		OpenSource:   openSource,
		OpenQueue:    openRedisQueue,
		settingsFile: cfg.SettingsFile,
		schemaFile:   cfg.SchemaFile,
	}, nil
}

func (a *App) loadSettings() error {
	if a.settingsFile == "" {
		return nil
	}
	var settings opensearch.Settings
	if err := config.LoadYAML(a.settingsFile, &settings); err != nil {
		return fmt.Errorf("load settings %s: %w", a.settingsFile, err)
	}
	a.Settings, a.settingsFile = settings, ""
	return nil
}

func (a *App) loadSchema() error {
	if a.schemaFile == "" {
		return nil
	}
	entities, err := schema.Load(a.schemaFile)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", a.schemaFile, err)
	}
	informer, err := indexer.NewInformer(entities)
	if err != nil {
		return err
	}
	a.Informer, a.schemaFile = informer, ""
	return nil
}

// withFiles reads the settings and schema files before running action.
func (a *App) withFiles(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := a.loadSettings(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if err := a.loadSchema(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return action(ctx, cmd)
	}
}

// newLogger starts from the environment defaults; an explicit level or
// format overrides them.
func newLogger(cfg Config) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Environment, "searchctl"),
		logger.WithOutput(os.Stderr),
		logger.WithContextExtractors(indexer.EventIDExtractor),
	}
	if cfg.LogLevel != "" {
		if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "":
	case string(logger.FormatJSON):
		opts = append(opts, logger.WithFormat(logger.FormatJSON))
	case string(logger.FormatText):
		opts = append(opts, logger.WithFormat(logger.FormatText))
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	return logger.New(opts...), nil
}

func sourceOpener(name string) (Opener[indexer.Source], error) {
	switch strings.ToLower(name) {
	case SourcePostgres, "pg":
		return openPostgresSource, nil
	case SourceMongoDB, "mongo":
		return openMongoSource, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
}

func openPostgresSource(ctx context.Context) (indexer.Source, httpserver.Check, func(), error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, nil, err
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return pg.NewSource(pool, pg.WithSchema(cfg.Schema)), pg.Healthcheck(pool), pool.Close, nil
}

func openMongoSource(ctx context.Context) (indexer.Source, httpserver.Check, func(), error) {
	var cfg mongo.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, nil, err
	}
	db, err := mongo.NewWithDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	client := db.Client()
	return mongo.NewSource(db), mongo.Healthcheck(client), func() {
		_ = client.Disconnect(context.Background())
	}, nil
}

func openRedisQueue(ctx context.Context) (indexer.Queue, httpserver.Check, func(), error) {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, nil, err
	}
	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return redis.NewQueue(client, redis.WithQueueKey(cfg.QueueKey)), redis.Healthcheck(client), func() {
		_ = client.Close()
	}, nil
}

func (a *App) client(bundle string) (*opensearch.Client, error) {
	factory := opensearch.NewClientFactory(a.Settings,
		opensearch.WithFactoryLogger(a.Logger),
		opensearch.WithTransportFunc(a.Transport),
	)
	return factory.Create(bundle)
}

func (a *App) objectIndexer(bundle string) (*indexer.ObjectIndexer, error) {
	client, err := a.client(bundle)
	if err != nil {
		return nil, err
	}
	return indexer.NewObjectIndexer(a.Informer, client, indexer.WithLogger(a.Logger))
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format+"\n", args...)
}
