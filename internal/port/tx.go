package port

import "context"

// TxManager runs a function inside a database transaction. The transaction
// is carried on the context; repositories pick it up transparently.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
