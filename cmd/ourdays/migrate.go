package main

import (
	"github.com/spf13/cobra"

	"ourdays/config"
	"ourdays/internal/repository/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Creates any missing tables and indexes. Safe to run repeatedly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.Environment)
		db, err := openDB(cmd.Context(), cfg.DBUrl)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		logger.Info("schema applied")
		return nil
	},
}
