package testutil

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/ledger"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
)

// InMemoryLedgerStore implements ledger.Repository
type InMemoryLedgerStore struct {
	*InMemoryStore[*ledger.Transaction]
}

// NewInMemoryLedgerStore creates a new in-memory ledger repository
func NewInMemoryLedgerStore() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		InMemoryStore: NewInMemoryStore[*ledger.Transaction](),
	}
}

func (m *InMemoryLedgerStore) Create(ctx context.Context, t *ledger.Transaction) error {
	if t == nil {
		return ierr.NewError("transaction cannot be nil").
			WithHint("Transaction cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return m.InMemoryStore.Create(ctx, t.ID, t)
}

func (m *InMemoryLedgerStore) ListByUserID(ctx context.Context, userID string, limit int) ([]*ledger.Transaction, error) {
	txns, err := m.InMemoryStore.List(ctx, func(_ context.Context, t *ledger.Transaction) bool {
		return t.UserID == userID
	}, func(a, b *ledger.Transaction) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

func (m *InMemoryLedgerStore) SumByUserID(ctx context.Context, userID string) (int64, error) {
	txns, err := m.InMemoryStore.List(ctx, func(_ context.Context, t *ledger.Transaction) bool {
		return t.UserID == userID
	}, nil)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, t := range txns {
		sum += t.Amount
	}
	return sum, nil
}
