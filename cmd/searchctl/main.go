package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/searchkit/cmd/searchctl/commands"
	"github.com/dmitrymomot/searchkit/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := os.Stat(".env"); err == nil {
		if err := config.LoadEnv(".env"); err != nil {
			fatal(err)
		}
	}

	var cfg commands.Config
	if err := config.Load(&cfg); err != nil {
		fatal(err)
	}
	app, err := commands.Load(cfg)
	if err != nil {
		fatal(err)
	}

	if err := app.Command().Run(ctx, os.Args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
