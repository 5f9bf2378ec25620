package main

import (
	"github.com/klass-lk/seoblog/internal/app"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the collection indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), func(a *app.App) error {
			if err := a.EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			log.Info().Msg("indexes are up to date")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
