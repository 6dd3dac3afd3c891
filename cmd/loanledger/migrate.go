package main

import (
	"errors"
	"fmt"

	pgStorage "loan-ledger/internal/adapter/storage/postgres"

	"github.com/spf13/cobra"
)

func migrateCmd(cfgPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cfgPath())
			if err != nil {
				return err
			}
			if cfg.Store.UsesMemory() {
				return errors.New("migrate requires store.driver=postgres")
			}

			pool, err := pgStorage.NewPool(cmd.Context(), cfg.Database, log)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			return pgStorage.Migrate(cmd.Context(), pool, log)
		},
	}
}
