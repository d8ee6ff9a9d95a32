package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cabinet/internal/config"
	"cabinet/internal/repository/postgres"
	"cabinet/internal/repository/sqlite"
)

func dropTablesCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "drop-tables",
		Short: "Drop every table under the configured prefix",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := loadConfig()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := refuseInProd(cfg, "drop-tables"); err != nil {
				return err
			}
			if !force {
				return fmt.Errorf("drop-tables deletes all data under prefix %q; pass --force to continue", cfg.TablePrefix)
			}

			ctx := cmd.Context()
			switch cfg.StoreDriver {
			case config.DriverPostgres:
				pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer pool.Close()
				err = postgres.DropAllTables(ctx, pool, postgres.NewTableNames(cfg.TablePrefix))
				if err != nil {
					return err
				}
			case config.DriverSQLite:
				db, err := sqlite.Open(ctx, cfg.SQLitePath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := sqlite.DropAllTables(ctx, db, sqlite.NewTableNames(cfg.TablePrefix)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("store driver %q has no tables", cfg.StoreDriver)
			}

			logger.Info("tables dropped", "driver", cfg.StoreDriver, "prefix", cfg.TablePrefix)
			fmt.Printf("All tables dropped (prefix: %q)\n", cfg.TablePrefix)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm the drop")
	return cmd
}
