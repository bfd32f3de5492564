package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edvin/dbaccess/internal/db"
)

func newMigrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply catalog schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig("migrate")
			if err != nil {
				return err
			}

			if down {
				logger.Info().Msg("rolling back last catalog migration")
				if err := db.RollbackMigration(cfg.CatalogDatabaseURL); err != nil {
					return fmt.Errorf("rollback migration: %w", err)
				}
				return nil
			}

			logger.Info().Msg("running catalog migrations")
			return runMigrations(cfg.CatalogDatabaseURL)
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Roll back the most recent migration")
	return cmd
}

func runMigrations(databaseURL string) error {
	if err := db.RunMigrations(databaseURL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
