package testutil

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/credential"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
)

// InMemoryCredentialStore implements credential.Repository
type InMemoryCredentialStore struct {
	*InMemoryStore[*credential.Credential]
}

// NewInMemoryCredentialStore creates a new in-memory credential repository
func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{
		InMemoryStore: NewInMemoryStore[*credential.Credential](),
	}
}

func (m *InMemoryCredentialStore) Create(ctx context.Context, c *credential.Credential) error {
	if c == nil {
		return ierr.NewError("credential cannot be nil").
			WithHint("Credential cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return m.InMemoryStore.Create(ctx, c.ID, c)
}

func (m *InMemoryCredentialStore) Get(ctx context.Context, id string) (*credential.Credential, error) {
	c, err := m.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("credential not found").
			WithHintf("Credential with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

func (m *InMemoryCredentialStore) GetActiveByUserID(ctx context.Context, userID string) (*credential.Credential, error) {
	creds, _ := m.InMemoryStore.List(ctx, func(_ context.Context, c *credential.Credential) bool {
		return c.UserID == userID && c.Active
	}, func(a, b *credential.Credential) bool {
		return a.IssuedAt.After(b.IssuedAt)
	})
	if len(creds) == 0 {
		return nil, ierr.NewError("active credential not found").
			WithHint("User has no active credential").
			Mark(ierr.ErrNotFound)
	}
	return creds[0], nil
}

func (m *InMemoryCredentialStore) DeactivateByUserID(ctx context.Context, userID string) error {
	creds, _ := m.InMemoryStore.List(ctx, func(_ context.Context, c *credential.Credential) bool {
		return c.UserID == userID && c.Active
	}, nil)
	for _, c := range creds {
		c.Active = false
		if err := m.InMemoryStore.Update(ctx, c.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func (m *InMemoryCredentialStore) ListByUserID(ctx context.Context, userID string) ([]*credential.Credential, error) {
	return m.InMemoryStore.List(ctx, func(_ context.Context, c *credential.Credential) bool {
		return c.UserID == userID
	}, func(a, b *credential.Credential) bool {
		return a.IssuedAt.After(b.IssuedAt)
	})
}
