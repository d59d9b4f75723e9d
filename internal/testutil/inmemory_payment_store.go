package testutil

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/payment"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment repository
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func (m *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").
			WithHint("Payment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if existing, err := m.GetByPayload(ctx, p.InvoicePayload); err == nil && existing != nil {
		return ierr.NewError("invoice payload already used").
			WithHint("A payment with this invoice payload already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return m.InMemoryStore.Create(ctx, p.ID, p)
}

func (m *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := m.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("payment not found").
			WithHintf("Payment with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

// GetForUpdate behaves like Get; there is no row locking in memory.
func (m *InMemoryPaymentStore) GetForUpdate(ctx context.Context, id string) (*payment.Payment, error) {
	return m.Get(ctx, id)
}

func (m *InMemoryPaymentStore) GetByPayload(ctx context.Context, payload string) (*payment.Payment, error) {
	payments, _ := m.InMemoryStore.List(ctx, func(_ context.Context, p *payment.Payment) bool {
		return p.InvoicePayload == payload
	}, nil)
	if len(payments) == 0 {
		return nil, ierr.NewError("payment not found").
			WithHint("No payment matches this invoice payload").
			Mark(ierr.ErrNotFound)
	}
	return payments[0], nil
}

func (m *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").
			WithHint("Payment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return m.InMemoryStore.Update(ctx, p.ID, p)
}

func (m *InMemoryPaymentStore) ListByUserID(ctx context.Context, userID string, limit int) ([]*payment.Payment, error) {
	payments, err := m.InMemoryStore.List(ctx, func(_ context.Context, p *payment.Payment) bool {
		return p.UserID == userID
	}, func(a, b *payment.Payment) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(payments) > limit {
		payments = payments[:limit]
	}
	return payments, nil
}
