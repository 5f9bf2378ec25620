package main

import (
	"context"
	"time"

	"github.com/klass-lk/seoblog/internal/app"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Port = port
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.Close(ctx)
		}()
		return a.Run(cmd.Context())
	},
}

func init() {
	serverCmd.Flags().Int("port", 0, "port to listen on, overrides PORT")
	rootCmd.AddCommand(serverCmd)
}
