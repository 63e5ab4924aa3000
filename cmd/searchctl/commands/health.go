package commands

import (
	"context"
	"maps"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/searchkit/pkg/httpserver"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
)

// HealthAction runs the health checks of the search engine and the record
// source and exits with 1 if any fails.
func (a *App) HealthAction(ctx context.Context, cmd *cli.Command) error {
	checks := map[string]httpserver.Check{}
	if err := a.loadSettings(); err != nil {
		checks["opensearch"] = func(context.Context) error { return err }
	} else {
		client, err := a.client(cmd.String("client"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		checks["opensearch"] = opensearch.Healthcheck(client)
	}

	if _, check, closeSource, err := a.OpenSource(ctx); err != nil {
		checks["source"] = func(context.Context) error { return err }
	} else {
		defer closeSource()
		if check != nil {
			checks["source"] = check
		}
	}

	failed := false
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		if err := checks[name](ctx); err != nil {
			a.printf("%s: %s", name, err)
			failed = true
			continue
		}
		a.printf("%s: ok", name)
	}
	if failed {
		return cli.Exit("health check failed", 1)
	}
	return nil
}
