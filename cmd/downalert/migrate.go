package main

import (
	"downalert/internal/lib/setup"
	"log/slog"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := setup.ConnectToDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		slog.Info("database is up to date", slog.String("driver", cfg.DbDriver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
