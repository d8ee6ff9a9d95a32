package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// NewMigrator returns a goose provider for the schema under the given table prefix.
// Migrations are Go functions so the prefix can be applied to table and constraint names;
// the version table is prefixed too, so several environments can share one database.
// The returned *sql.DB must be closed by the caller.
func NewMigrator(pool *pgxpool.Pool, tables *TableNames) (*goose.Provider, *sql.DB, error) {
	db := stdlib.OpenDBFromPool(pool)

	store, err := database.NewStore(database.DialectPostgres, tables.Prefix+"goose_db_version")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create goose store: %w", err)
	}

	provider, err := goose.NewProvider("", db, nil,
		goose.WithStore(store),
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(schemaMigrations(tables)...),
	)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create migration provider: %w", err)
	}
	return provider, db, nil
}

func schemaMigrations(t *TableNames) []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(1,
			&goose.GoFunc{RunTx: execAll(
				fmt.Sprintf(`CREATE TABLE %s (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name TEXT NOT NULL,
					email TEXT NOT NULL,
					password_hash TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT now()
				)`, t.Users),
				fmt.Sprintf(`CREATE UNIQUE INDEX %s%s ON %s (lower(email))`, t.Prefix, constraintUsersEmail, t.Users),
				fmt.Sprintf(`CREATE TABLE %s (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
					parent_folder_id UUID REFERENCES %s(id),
					name TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					CONSTRAINT %s%s UNIQUE (parent_folder_id, name)
				)`, t.Folders, t.Users, t.Folders, t.Prefix, constraintFoldersSibling),
				fmt.Sprintf(`CREATE UNIQUE INDEX %s%s ON %s (user_id) WHERE parent_folder_id IS NULL`,
					t.Prefix, constraintFoldersRoot, t.Folders),
				fmt.Sprintf(`CREATE INDEX %sfolders_user_id_idx ON %s (user_id)`, t.Prefix, t.Folders),
				fmt.Sprintf(`CREATE TABLE %s (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
					parent_folder_id UUID NOT NULL REFERENCES %s(id),
					file_name TEXT NOT NULL,
					content TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					CONSTRAINT %s%s UNIQUE (parent_folder_id, file_name)
				)`, t.Files, t.Users, t.Folders, t.Prefix, constraintFilesSibling),
				fmt.Sprintf(`CREATE INDEX %sfiles_user_id_idx ON %s (user_id)`, t.Prefix, t.Files),
			)},
			&goose.GoFunc{RunTx: execAll(
				fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Files),
				fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Folders),
				fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Users),
			)},
		),
	}
}

func execAll(statements ...string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}

// DropAllTables removes the prefixed schema tables and the goose version table.
func DropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	names := append(tables.All(), tables.Prefix+"goose_db_version")
	for _, name := range names {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}
