package shared

import "context"

// TransactionManager scopes a unit of work to a database transaction.
// Repositories participating in the transaction pick it up from the
// context passed to fn.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
