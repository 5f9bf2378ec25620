package main

import (
	"github.com/klass-lk/seoblog/internal/app"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant the administrator role to an existing user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), func(a *app.App) error {
			if err := a.Promote(cmd.Context(), args[0]); err != nil {
				return err
			}
			log.Info().Str("email", args[0]).Msg("user promoted to admin")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)
}
