package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/helpdesk-api/internal/config"
	"github.com/yukikurage/helpdesk-api/internal/database"
	"github.com/yukikurage/helpdesk-api/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log := logger.New(cfg.Logger, os.Stdout)

		if cfg.Database.Driver == "memory" {
			log.Info("memory store has no schema, nothing to migrate")
			return nil
		}

		db, err := database.Connect(cfg.Database, false, log)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		return database.Migrate(db, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
