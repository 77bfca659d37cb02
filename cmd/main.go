package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/habsync/internal/services"
	"github.com/desertthunder/habsync/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	gate := services.NewGate(services.NewRateLimitState(), config.API.RequestsPerSecond, config.API.RateBuffer(), logger)

	var taskService services.Service
	if config.Credentials.Validate() == nil {
		if svc, err := services.NewHabiticaService(services.HabiticaOpts{
			BaseURL: config.API.BaseURL,
			UserID:  config.Credentials.UserID,
			APIKey:  config.Credentials.APIKey,
			Client:  config.Credentials.Client,
			Timeout: config.API.Timeout(),
			Gate:    gate,
			Logger:  logger,
		}); err == nil {
			taskService = svc
		}
	}

	opts := RunnerOpts{
		Config:  config,
		Service: taskService,
		Gate:    gate,
		Logger:  logger,
	}
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			opts.DB = db
			defer db.Close()
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "habsync",
		Usage:    "Sync Habitica tasks into markdown notes",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
