package repositories

import "context"

// TxFn is the unit of work passed to ExecTx. Repository calls made with the
// ctx it receives join the surrounding transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs a TxFn atomically: every write commits or none does.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

type txKey struct{}

// WithTx returns a copy of ctx carrying a driver transaction (pgx.Tx, *sqlx.Tx).
func WithTx[T any](ctx context.Context, tx T) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom returns the transaction stored by WithTx, if it has type T.
func TxFrom[T any](ctx context.Context) (T, bool) {
	tx, ok := ctx.Value(txKey{}).(T)
	return tx, ok
}
