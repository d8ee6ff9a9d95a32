package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	ftrepo "cabinet/internal/domain/repositories/filetree"
)

// NewStore opens the database at path, applies pending migrations and wires the repositories.
func NewStore(ctx context.Context, path, prefix string, logger *slog.Logger) (*ftrepo.Store, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}

	tables := NewTableNames(prefix)
	migrator, err := NewMigrator(db.DB, tables)
	if err != nil {
		db.Close()
		return nil, err
	}
	results, err := migrator.Up(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	for _, res := range results {
		logger.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}

	return &ftrepo.Store{
		Users:   NewUserRepository(db, tables),
		Folders: NewFolderRepository(db, tables),
		Files:   NewFileRepository(db, tables),
		Tx:      NewTransactionManager(db, logger),
		Close:   db.Close,
	}, nil
}
