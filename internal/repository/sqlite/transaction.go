package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"cabinet/internal/domain/repositories"
)

// executor is satisfied by both *sqlx.DB and *sqlx.Tx
type executor interface {
	sqlx.ExtContext
}

func getExecutor(ctx context.Context, db *sqlx.DB) executor {
	if tx, ok := repositories.TxFrom[*sqlx.Tx](ctx); ok {
		return tx
	}
	return db
}

type TransactionManager struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewTransactionManager(db *sqlx.DB, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{db: db, logger: logger}
}

func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			tm.logger.Warn("rollback failed", "error", err)
		}
	}()

	if err := fn(repositories.WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
