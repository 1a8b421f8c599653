package main

import (
	"errors"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"
	"github.com/userdeck/userdeck/db"
	"github.com/userdeck/userdeck/internal/config"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:         "migrate",
	Short:       "Create or drop the postgres session table",
	Args:        cobra.NoArgs,
	Annotations: structuredLog(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadForMigrations()
		if err != nil {
			return err
		}

		source, err := iofs.New(db.Migrations, "migrations")
		if err != nil {
			return err
		}
		m, err := migrate.NewWithSourceInstance("iofs", source, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer m.Close()

		apply := m.Up
		if migrateDown {
			apply = m.Down
		}
		if err := apply(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				slog.Info("no changes to apply")
				return nil
			}
			return err
		}

		slog.Info("migrations applied successfully", "down", migrateDown)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back all migrations")
}
