package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/searchkit/pkg/indexer"
)

// StatusAction reports, per entity, the documents in search against the
// records in the primary store and the modifications needed to align them.
// With --update the missing and stale documents are indexed.
func (a *App) StatusAction(ctx context.Context, cmd *cli.Command) error {
	entityName := cmd.String("entity")
	if entityName != "" && !a.Informer.IsIndexable(entityName) {
		return cli.Exit(fmt.Sprintf("Entity %q is not configured, check the schema file", entityName), 1)
	}

	oi, err := a.objectIndexer(cmd.String("client"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	source, _, closeSource, err := a.OpenSource(ctx)
	if err != nil {
		return cli.Exit("Unable to open the record source: "+err.Error(), 1)
	}
	defer closeSource()

	reconciler, err := indexer.NewReconciler(oi, source)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	update := cmd.Bool("update")
	statuses, err := reconciler.Status(ctx, entityName, update)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	failed := false
	for _, s := range statuses {
		a.printf("    Entity %s", s.Entity)
		a.printf("        Index %s Type %s", s.Index, s.Type)
		a.printf("        Documents in search: %s", countOrError(s.SearchCount, s.SearchCountOK))
		a.printf("        Documents in persistence: %s", countOrError(s.SourceCount, s.SourceCountOK))
		if s.SearchCountOK && s.SourceCountOK {
			if update {
				a.printf("        Objects inserted: %d", s.Inserted)
				a.printf("        Objects updated: %d", s.Updated)
			} else {
				a.printf("        Modifications needed: create %d, update %d, delete %d",
					len(s.States[indexer.ActionCreate]),
					len(s.States[indexer.ActionUpdate]),
					len(s.States[indexer.ActionDelete]))
			}
		}
		failed = failed || s.HasErrors()
	}

	if !failed {
		return nil
	}
	a.printf("")
	a.printf("The following errors occurred:")
	for _, s := range statuses {
		for _, err := range s.Errors {
			a.printf("")
			a.printf("        Error for %s:", s.Entity)
			a.printf("    %s", err)
		}
	}
	return cli.Exit("status finished with errors", 1)
}

func countOrError(n int64, ok bool) string {
	if !ok {
		return "Error"
	}
	return strconv.FormatInt(n, 10)
}
