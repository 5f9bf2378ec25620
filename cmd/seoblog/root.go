package main

import (
	"context"
	"fmt"

	"github.com/klass-lk/seoblog/internal/app"
	"github.com/klass-lk/seoblog/internal/config"
	"github.com/klass-lk/seoblog/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "seoblog",
	Short:         "Blogging platform JSON API",
	SilenceUsage: true,
}

// loadConfig reads configuration and initialises logging for every
// command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init(cfg.IsProduction(), cfg.LogLevel)
	return cfg, nil
}

// withDatabase runs fn against an app assembled over Mongo only, for
// maintenance commands that need no cache, mail or object storage.
func withDatabase(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, db, err := cfg.Mongo().Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	a, err := app.Assemble(cfg, db, app.Deps{})
	if err != nil {
		return err
	}
	return fn(a)
}
