package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a group of KV writes atomically where the backend
// supports it.
type TransactionManager interface {
	// ExecTx executes fn within a transaction carried on ctx
	ExecTx(ctx context.Context, fn TxFn) error
}
