package ports

import "context"

// TxRunner executes fn inside one storage transaction. Every repository call
// made with the context passed to fn joins that transaction; fn returning an
// error aborts the whole write set.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
