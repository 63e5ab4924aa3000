package commands

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/searchkit/pkg/httpserver"
	"github.com/dmitrymomot/searchkit/pkg/indexer"
	"github.com/dmitrymomot/searchkit/pkg/logger"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
)

// WorkerAction consumes queued persistence events and indexes them until
// the context is cancelled. Unless --health-addr is empty, probe endpoints
// are served next to it.
func (a *App) WorkerAction(ctx context.Context, cmd *cli.Command) error {
	oi, err := a.objectIndexer(cmd.String("client"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	queue, queueCheck, closeQueue, err := a.OpenQueue(ctx)
	if err != nil {
		return cli.Exit("Unable to open the event queue: "+err.Error(), 1)
	}
	defer closeQueue()

	worker, err := indexer.NewWorker(queue, oi,
		indexer.WithWorkerLogger(a.Logger.With(logger.Component("worker"))),
		indexer.WithErrorBackoff(time.Second),
	)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// the probe server stops with the worker
		defer cancel()
		return worker.Run(ctx)
	})

	if addr := cmd.String("health-addr"); addr != "" {
		checks := map[string]httpserver.Check{
			"opensearch": opensearch.Healthcheck(oi.Client()),
		}
		if queueCheck != nil {
			checks["queue"] = queueCheck
		}
		srv := httpserver.New(httpserver.WithAddr(addr), httpserver.WithLogger(a.Logger))
		g.Go(func() error { return srv.Run(ctx, httpserver.Router(a.Logger, checks)) })
	}

	if err := g.Wait(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
