package interfaces

import "context"

// TransactionManager runs a function inside a single store transaction.
// Writes made through repositories within fn are committed together or not
// at all.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
