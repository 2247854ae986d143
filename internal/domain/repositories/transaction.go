package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a unit of work atomically. If fn returns an error or
// ctx is cancelled before commit, nothing fn wrote is kept.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
