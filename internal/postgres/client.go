package postgres

import "context"

// IClient is the transactional surface services depend on. Repositories
// joined under one WithTx callback share a single database transaction;
// nested calls reuse it via savepoints.
type IClient interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ IClient = (*DB)(nil)
