package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"cabinet/internal/config"
	"cabinet/internal/repository/postgres"
	"cabinet/internal/repository/sqlite"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, cleanup, err := loadConfig()
				if err != nil {
					return err
				}
				defer cleanup()
				return withMigrator(cmd.Context(), cfg, func(p *goose.Provider) error {
					results, err := p.Up(cmd.Context())
					if err != nil {
						return fmt.Errorf("migrating up: %w", err)
					}
					if len(results) == 0 {
						fmt.Println("Schema is up to date")
					}
					for _, res := range results {
						fmt.Printf("Applied %d (%s)\n", res.Source.Version, res.Duration)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, cleanup, err := loadConfig()
				if err != nil {
					return err
				}
				defer cleanup()
				if err := refuseInProd(cfg, "migrate down"); err != nil {
					return err
				}
				return withMigrator(cmd.Context(), cfg, func(p *goose.Provider) error {
					res, err := p.Down(cmd.Context())
					if err != nil {
						return fmt.Errorf("migrating down: %w", err)
					}
					fmt.Printf("Rolled back %d (%s)\n", res.Source.Version, res.Duration)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, cleanup, err := loadConfig()
				if err != nil {
					return err
				}
				defer cleanup()
				return withMigrator(cmd.Context(), cfg, func(p *goose.Provider) error {
					statuses, err := p.Status(cmd.Context())
					if err != nil {
						return fmt.Errorf("reading status: %w", err)
					}
					tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT")
					for _, s := range statuses {
						applied := "-"
						if !s.AppliedAt.IsZero() {
							applied = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
						fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Source.Version, s.State, applied)
					}
					return tw.Flush()
				})
			},
		},
	)
	return cmd
}

// withMigrator opens the configured database, builds its goose provider and runs fn.
func withMigrator(ctx context.Context, cfg *config.Config, fn func(*goose.Provider) error) error {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		provider, db, err := postgres.NewMigrator(pool, postgres.NewTableNames(cfg.TablePrefix))
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(provider)

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()

		provider, err := sqlite.NewMigrator(db.DB, sqlite.NewTableNames(cfg.TablePrefix))
		if err != nil {
			return err
		}
		return fn(provider)

	default:
		return fmt.Errorf("store driver %q has no schema to migrate", cfg.StoreDriver)
	}
}

func refuseInProd(cfg *config.Config, operation string) error {
	if cfg.Environment == "prod" {
		return fmt.Errorf("refusing to run %s in the prod environment", operation)
	}
	return nil
}
