package testutil

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/user"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
)

// InMemoryUserStore implements user.Repository
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

// NewInMemoryUserStore creates a new in-memory user repository
func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func (m *InMemoryUserStore) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return ierr.NewError("user cannot be nil").
			WithHint("User cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return m.InMemoryStore.Create(ctx, u.ID, u)
}

func (m *InMemoryUserStore) Get(ctx context.Context, id string) (*user.User, error) {
	u, err := m.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("user not found").
			WithHintf("User with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return u, nil
}

// GetForUpdate behaves like Get; there is no row locking in memory.
func (m *InMemoryUserStore) GetForUpdate(ctx context.Context, id string) (*user.User, error) {
	return m.Get(ctx, id)
}

func (m *InMemoryUserStore) GetByExternalID(ctx context.Context, externalID int64) (*user.User, error) {
	users, _ := m.InMemoryStore.List(ctx, func(_ context.Context, u *user.User) bool {
		return u.ExternalID == externalID
	}, nil)
	if len(users) == 0 {
		return nil, ierr.NewError("user not found").
			WithHintf("User with external ID %d was not found", externalID).
			Mark(ierr.ErrNotFound)
	}
	return users[0], nil
}

func (m *InMemoryUserStore) GetByReferralCode(ctx context.Context, code string) (*user.User, error) {
	users, _ := m.InMemoryStore.List(ctx, func(_ context.Context, u *user.User) bool {
		return u.ReferralCode == code
	}, nil)
	if len(users) == 0 {
		return nil, ierr.NewError("user not found").
			WithHint("No user owns this referral code").
			Mark(ierr.ErrNotFound)
	}
	return users[0], nil
}

func (m *InMemoryUserStore) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return ierr.NewError("user cannot be nil").
			WithHint("User cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return m.InMemoryStore.Update(ctx, u.ID, u)
}

func (m *InMemoryUserStore) UpdateBalance(ctx context.Context, id string, balance, totalEarned int64) error {
	u, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	u.Balance = balance
	u.TotalEarned = totalEarned
	return m.InMemoryStore.Update(ctx, id, u)
}

func (m *InMemoryUserStore) CountReferrals(ctx context.Context, code string) (int, error) {
	users, _ := m.InMemoryStore.List(ctx, func(_ context.Context, u *user.User) bool {
		return u.InvitedBy != nil && *u.InvitedBy == code
	}, nil)
	return len(users), nil
}
