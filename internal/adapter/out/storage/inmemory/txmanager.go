package inmemory

import "context"

// TxManager runs fn directly. Each storage call is atomic on its own; there
// is no multi-call rollback in memory.
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
