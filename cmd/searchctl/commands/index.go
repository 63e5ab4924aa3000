package commands

import (
	"context"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/searchkit/pkg/logger"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
)

// IndexCreateAction creates the index unless it exists.
func (a *App) IndexCreateAction(ctx context.Context, cmd *cli.Command) error {
	return a.withIndex(ctx, cmd, false, "create", func(index *opensearch.Index) error {
		if err := index.Create(ctx); err != nil {
			return err
		}
		a.printf("Index %s created with success", index.OriginalName())
		return nil
	})
}

// IndexUpdateSettingsAction pushes the configured settings of an existing index.
func (a *App) IndexUpdateSettingsAction(ctx context.Context, cmd *cli.Command) error {
	return a.withIndex(ctx, cmd, true, "update settings for", func(index *opensearch.Index) error {
		if err := index.UpdateSettings(ctx); err != nil {
			return err
		}
		a.printf("Index settings %s updated with success", index.OriginalName())
		return nil
	})
}

// IndexDeleteAction deletes an existing index.
func (a *App) IndexDeleteAction(ctx context.Context, cmd *cli.Command) error {
	return a.withIndex(ctx, cmd, true, "delete", func(index *opensearch.Index) error {
		if _, err := index.Delete(ctx); err != nil {
			return err
		}
		a.printf("Index %s deleted with success", index.OriginalName())
		return nil
	})
}

// IndexRefreshAction refreshes an existing index.
func (a *App) IndexRefreshAction(ctx context.Context, cmd *cli.Command) error {
	return a.withIndex(ctx, cmd, true, "refresh", func(index *opensearch.Index) error {
		if _, err := index.Refresh(ctx); err != nil {
			return err
		}
		a.printf("Index %s refreshed with success", index.OriginalName())
		return nil
	})
}

// withIndex resolves the --index flag against the schema and the server.
// mustExist selects whether the index has to exist or must not exist yet.
func (a *App) withIndex(ctx context.Context, cmd *cli.Command, mustExist bool, verb string, fn func(*opensearch.Index) error) error {
	name := cmd.String("index")
	if !slices.Contains(a.Informer.AllIndexNames(), name) {
		return cli.Exit("The index "+name+" is not configured in the current application", 1)
	}

	client, err := a.client(cmd.String("client"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	index, err := client.FindIndex(name)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	log := a.Logger.With(logger.Bundle(client.Bundle()), logger.Index(index.Name()))
	fail := func(err error) error {
		log.ErrorContext(ctx, "index command failed", logger.Error(err))
		return cli.Exit("Unable to "+verb+" the index "+name+": "+err.Error(), 1)
	}

	exists, err := index.Exists(ctx)
	if err != nil {
		return fail(err)
	}
	switch {
	case exists && !mustExist:
		return cli.Exit("The index "+name+" exists", 1)
	case !exists && mustExist:
		return cli.Exit("The index "+name+" does not exist", 1)
	}

	if err := fn(index); err != nil {
		return fail(err)
	}
	return nil
}
