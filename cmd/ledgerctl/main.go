package main

import (
	"context"
	"os"

	"github.com/dafibh/finanzas/finanzas-backend/internal/app"
	"github.com/dafibh/finanzas/finanzas-backend/internal/cache"
	"github.com/dafibh/finanzas/finanzas-backend/internal/cli"
	"github.com/dafibh/finanzas/finanzas-backend/internal/config"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	root := cli.NewRootCmd(openServices)
	if err := root.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// openServices wires the same ledger and engine options as the API server
func openServices(ctx context.Context) (*app.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	opts, err := app.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.NewServices(store, cache.New(cfg.CacheTTL), opts), closeStore, nil
}
