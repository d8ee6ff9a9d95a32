package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// TableNames holds prefixed table names, matching the Postgres layout
type TableNames struct {
	Prefix  string
	Users   string
	Folders string
	Files   string
}

// All lists the tables in drop order (children first).
func (t *TableNames) All() []string {
	return []string{t.Files, t.Folders, t.Users}
}

func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:  prefix,
		Users:   prefix + "users",
		Folders: prefix + "folders",
		Files:   prefix + "files",
	}
}

// NewMigrator returns a goose provider for the SQLite schema.
func NewMigrator(db *sql.DB, t *TableNames) (*goose.Provider, error) {
	store, err := database.NewStore(database.DialectSQLite3, t.Prefix+"goose_db_version")
	if err != nil {
		return nil, fmt.Errorf("create goose store: %w", err)
	}
	return goose.NewProvider("", db, nil,
		goose.WithStore(store),
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(
			goose.NewGoMigration(1,
				&goose.GoFunc{RunTx: execAll(
					fmt.Sprintf(`CREATE TABLE %s (
						id TEXT PRIMARY KEY,
						name TEXT NOT NULL,
						email TEXT NOT NULL,
						password_hash TEXT,
						created_at DATETIME NOT NULL
					)`, t.Users),
					fmt.Sprintf(`CREATE UNIQUE INDEX %susers_email_key ON %s (lower(email))`, t.Prefix, t.Users),
					fmt.Sprintf(`CREATE TABLE %s (
						id TEXT PRIMARY KEY,
						user_id TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
						parent_folder_id TEXT REFERENCES %s(id),
						name TEXT NOT NULL,
						created_at DATETIME NOT NULL,
						UNIQUE (parent_folder_id, name)
					)`, t.Folders, t.Users, t.Folders),
					fmt.Sprintf(`CREATE UNIQUE INDEX %sfolders_one_root_per_user ON %s (user_id) WHERE parent_folder_id IS NULL`,
						t.Prefix, t.Folders),
					fmt.Sprintf(`CREATE INDEX %sfolders_user_id_idx ON %s (user_id)`, t.Prefix, t.Folders),
					fmt.Sprintf(`CREATE TABLE %s (
						id TEXT PRIMARY KEY,
						user_id TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
						parent_folder_id TEXT NOT NULL REFERENCES %s(id),
						file_name TEXT NOT NULL,
						content TEXT NOT NULL DEFAULT '',
						created_at DATETIME NOT NULL,
						UNIQUE (parent_folder_id, file_name)
					)`, t.Files, t.Users, t.Folders),
					fmt.Sprintf(`CREATE INDEX %sfiles_user_id_idx ON %s (user_id)`, t.Prefix, t.Files),
				)},
				&goose.GoFunc{RunTx: execAll(
					fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Files),
					fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Folders),
					fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Users),
				)},
			),
		),
	)
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
func DropAllTables(ctx context.Context, db *sqlx.DB, t *TableNames) error {
	for _, name := range append(t.All(), t.Prefix+"goose_db_version") {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name)); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}
