package commands

import (
	"context"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/searchkit/pkg/mapping"
)

// MappingAction builds the mappings the schema asks for, compares them with
// the ones on the server and prints the properties that differ. With
// --apply the differing mappings are put to the server.
func (a *App) MappingAction(ctx context.Context, cmd *cli.Command) error {
	client, err := a.client(cmd.String("client"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	entity, err := mapping.NewEntityBuilder(a.Informer, nil).Build()
	if err != nil {
		return cli.Exit("Unable to build the schema mappings: "+err.Error(), 1)
	}
	backendBuilder := mapping.NewBackendBuilder(client, a.Informer)
	backend, err := backendBuilder.Build(ctx)
	if err != nil {
		return cli.Exit("Unable to read the server mappings: "+err.Error(), 1)
	}

	missing, err := backendBuilder.IndicesWithoutTypeInformation()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	for _, name := range missing {
		a.printf("Index %s has no mapping on the server", name)
	}

	drift := entity.DiffAgainst(backend)
	if drift.Len() == 0 {
		a.printf("Mappings are up to date")
		return nil
	}
	for _, m := range drift.Mappings() {
		a.printf("Index %s Type %s", m.Type().Index().OriginalName(), m.Type().Name())
		properties := make([]string, 0, len(m.Properties()))
		for name := range m.Properties() {
			properties = append(properties, name)
		}
		sort.Strings(properties)
		for _, name := range properties {
			a.printf("    %s", name)
		}
	}

	if !cmd.Bool("apply") {
		return nil
	}
	drift.SetClient(client)
	if err := drift.Apply(ctx); err != nil {
		return cli.Exit("Unable to apply the mappings: "+err.Error(), 1)
	}
	a.printf("Mappings applied: %d", drift.Len())
	return nil
}
