package ledger

import (
	"context"
)

// Repository defines the interface for the append-only transaction log.
// There is deliberately no update or delete.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]*Transaction, error)

	// SumByUserID returns the running sum of signed amounts for the user.
	// Used to verify ledger conservation against the balance column.
	SumByUserID(ctx context.Context, userID string) (int64, error)
}
