package payment

import (
	"context"
)

// Repository defines the interface for payment persistence
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)

	// GetForUpdate loads the payment row with a row-level lock when called
	// inside a transaction. Completion must read through this so two
	// concurrent deliveries of the same notice cannot both observe a
	// pending payment.
	GetForUpdate(ctx context.Context, id string) (*Payment, error)

	GetByPayload(ctx context.Context, payload string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]*Payment, error)
}
