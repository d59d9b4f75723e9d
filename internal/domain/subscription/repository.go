package subscription

import (
	"context"
)

// Repository defines the interface for subscription persistence
type Repository interface {
	Create(ctx context.Context, s *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	GetActiveByUserID(ctx context.Context, userID string) (*Subscription, error)

	// DeactivateByUserID flips active=false on every subscription of the
	// user. Called inside the purchase transaction right before the new
	// row is inserted.
	DeactivateByUserID(ctx context.Context, userID string) error

	ListByUserID(ctx context.Context, userID string) ([]*Subscription, error)
}
