package testutil

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/plan"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]
}

// NewInMemoryPlanStore creates a new in-memory plan repository
func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.Plan](),
	}
}

func (m *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").
			WithHint("Plan cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return m.InMemoryStore.Create(ctx, p.ID, p)
}

func (m *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	p, err := m.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("plan not found").
			WithHintf("Plan with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

// List returns all plans, cheapest first.
func (m *InMemoryPlanStore) List(ctx context.Context) ([]*plan.Plan, error) {
	return m.InMemoryStore.List(ctx, nil, func(a, b *plan.Plan) bool {
		return a.Price < b.Price
	})
}
