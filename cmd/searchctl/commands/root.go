package commands

import "github.com/urfave/cli/v3"

func clientFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "client",
		Aliases: []string{"c"},
		Usage:   "client bundle to use",
		Value:   "default",
		Sources: cli.EnvVars("SEARCHKIT_CLIENT"),
	}
}

func indexCommand(name, usage string, action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "index",
				Aliases:  []string{"i"},
				Usage:    "index name as declared in the schema",
				Required: true,
			},
			clientFlag(),
		},
		Action: action,
	}
}

// Command returns the searchctl command tree.
func (a *App) Command() *cli.Command {
	return &cli.Command{
		Name:  "searchctl",
		Usage: "manage search indexes and keep them in sync with the primary store",
		Commands: []*cli.Command{
			{
				Name:  "index",
				Usage: "index management",
				Commands: []*cli.Command{
					indexCommand("create", "create a configured index", a.withFiles(a.IndexCreateAction)),
					indexCommand("update-settings", "push the configured settings of an index", a.withFiles(a.IndexUpdateSettingsAction)),
					indexCommand("delete", "delete an index", a.withFiles(a.IndexDeleteAction)),
					indexCommand("refresh", "refresh an index", a.withFiles(a.IndexRefreshAction)),
				},
			},
			{
				Name:   "types",
				Usage:  "list the configured document types",
				Action: a.withFiles(a.TypesAction),
			},
			{
				Name:  "status",
				Usage: "compare indexed documents with the records of the primary store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "entity",
						Aliases: []string{"e"},
						Usage:   "only report this entity",
					},
					&cli.BoolFlag{
						Name:  "update",
						Usage: "index the records that are missing or stale",
					},
					clientFlag(),
				},
				Action: a.withFiles(a.StatusAction),
			},
			{
				Name:  "mapping",
				Usage: "show the drift between the schema mappings and the server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "apply",
						Usage: "put the drifted mappings to the server",
					},
					clientFlag(),
				},
				Action: a.withFiles(a.MappingAction),
			},
			{
				Name:  "worker",
				Usage: "index queued persistence events",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "health-addr",
						Usage:   "address of the probe server, empty to disable",
						Value:   ":8081",
						Sources: cli.EnvVars("SEARCHKIT_HEALTH_ADDR"),
					},
					clientFlag(),
				},
				Action: a.withFiles(a.WorkerAction),
			},
			{
				Name:   "health",
				Usage:  "check the search engine and the primary store",
				Flags:  []cli.Flag{clientFlag()},
				Action: a.HealthAction,
			},
		},
	}
}
