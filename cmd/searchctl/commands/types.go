package commands

import (
	"context"

	"github.com/urfave/cli/v3"
)

// TypesAction lists every indexable entity with its index and type.
func (a *App) TypesAction(_ context.Context, _ *cli.Command) error {
	a.printf("Available document types")
	for _, e := range a.Informer.Entities() {
		a.printf("    %s (index %s, type %s)", e.Name, e.Index, e.Type)
	}
	return nil
}
