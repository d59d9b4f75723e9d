package user

import (
	"context"
)

// Repository defines the interface for user persistence operations
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)

	// GetForUpdate loads the user row with a row-level lock when called
	// inside a transaction. Ledger mutations must read through this so two
	// concurrent spends cannot both observe a pre-mutation balance.
	GetForUpdate(ctx context.Context, id string) (*User, error)

	GetByExternalID(ctx context.Context, externalID int64) (*User, error)
	GetByReferralCode(ctx context.Context, code string) (*User, error)
	Update(ctx context.Context, u *User) error

	// UpdateBalance persists the balance and total earned columns only.
	UpdateBalance(ctx context.Context, id string, balance, totalEarned int64) error

	CountReferrals(ctx context.Context, code string) (int, error)
}
