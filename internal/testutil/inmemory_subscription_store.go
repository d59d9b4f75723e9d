package testutil

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/subscription"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
}

// NewInMemorySubscriptionStore creates a new in-memory subscription repository
func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

func (m *InMemorySubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return ierr.NewError("subscription cannot be nil").
			WithHint("Subscription cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return m.InMemoryStore.Create(ctx, sub.ID, sub)
}

func (m *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := m.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("subscription not found").
			WithHintf("Subscription with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return sub, nil
}

func (m *InMemorySubscriptionStore) GetActiveByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	subs, _ := m.InMemoryStore.List(ctx, func(_ context.Context, s *subscription.Subscription) bool {
		return s.UserID == userID && s.Active
	}, func(a, b *subscription.Subscription) bool {
		return a.StartDate.After(b.StartDate)
	})
	if len(subs) == 0 {
		return nil, ierr.NewError("active subscription not found").
			WithHint("User has no active subscription").
			Mark(ierr.ErrNotFound)
	}
	return subs[0], nil
}

func (m *InMemorySubscriptionStore) DeactivateByUserID(ctx context.Context, userID string) error {
	subs, _ := m.InMemoryStore.List(ctx, func(_ context.Context, s *subscription.Subscription) bool {
		return s.UserID == userID && s.Active
	}, nil)
	for _, sub := range subs {
		sub.Active = false
		if err := m.InMemoryStore.Update(ctx, sub.ID, sub); err != nil {
			return err
		}
	}
	return nil
}

func (m *InMemorySubscriptionStore) ListByUserID(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	return m.InMemoryStore.List(ctx, func(_ context.Context, s *subscription.Subscription) bool {
		return s.UserID == userID
	}, func(a, b *subscription.Subscription) bool {
		return a.StartDate.After(b.StartDate)
	})
}
