package credential

import (
	"context"
)

// Repository defines the interface for credential persistence
type Repository interface {
	Create(ctx context.Context, c *Credential) error
	Get(ctx context.Context, id string) (*Credential, error)
	GetActiveByUserID(ctx context.Context, userID string) (*Credential, error)

	// DeactivateByUserID marks every credential of the user inactive.
	// Runs inside the issue transaction so a new credential atomically
	// supersedes the prior one.
	DeactivateByUserID(ctx context.Context, userID string) error

	ListByUserID(ctx context.Context, userID string) ([]*Credential, error)
}
