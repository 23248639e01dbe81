package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/DoyleJ11/sheet-sync/internal/store"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and load the catalog",
		Long:  `Create or update the PostgreSQL schema and upsert the default catalog of attributes, items, weapons, armor and spells.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if cfg.InMemory() {
		return oops.Code("CONFIG_INVALID").Errorf("SHEET_DATABASE_URL is required")
	}

	cmd.Println("Connecting to database...")
	gs, err := store.OpenGorm(cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer gs.Close()

	cmd.Println("Running migrations...")
	if err := gs.Migrate(cmd.Context(), store.DefaultCatalog()); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	cmd.Println("Migrations completed successfully")
	return nil
}
