package main

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

const migrationsDir = "./etc/data/sql/migrations"

func cmdMigrate() *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "migrate [command] [args...]",
		Short: "Runs a goose migration command against the primary SQL store",
		Long:  "e.g. `kinexis migrate up`, `kinexis migrate status`, `kinexis migrate down`",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execMigrate(cmd.Context(), args[0], args[1:])
		},
	}
}

func execMigrate(ctx context.Context, command string, rest []string) error {
	app := NewAppContext()

	if err := app.Init(ctx); err != nil {
		return err
	}

	sqlDB, err := app.SQLDB()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := goose.RunContext(ctx, command, sqlDB, migrationsDir, rest...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}
