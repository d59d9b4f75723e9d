package credential

import (
	"time"

	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

// Credential is the per-user tunnel identity: a random UUID plus an
// obfuscation path, valid until the expiry of the access window it was
// issued for. At most one credential per user is considered valid; issuing
// a new one supersedes the previous in the same operation.
type Credential struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"user_id"`

	// UUID is the client-facing identity embedded in the connection URI.
	UUID string `db:"uuid" json:"uuid"`

	// Path is the per-user WebSocket obfuscation path, derived from the
	// external user id plus a per-issue salt so re-issuance never collides
	// with a still-active prior path.
	Path string `db:"path" json:"path"`

	// Email is the credential label, `user<externalID>@<domain>`.
	Email string `db:"email" json:"email"`

	IssuedAt  time.Time `db:"issued_at" json:"issued_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Active    bool      `db:"active" json:"active"`

	types.BaseModel
}

func (c *Credential) TableName() string {
	return "credentials"
}

func (c *Credential) Validate() error {
	if c.UserID == "" {
		return ierr.NewError("user id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}
	if c.UUID == "" {
		return ierr.NewError("credential uuid is required").
			WithHint("Credential UUID is required").
			Mark(ierr.ErrValidation)
	}
	if c.Path == "" {
		return ierr.NewError("credential path is required").
			WithHint("Credential path is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsValid reports whether the credential grants access at now. The expiry
// always wins over the stored active flag: the two can disagree only in the
// stale-but-not-yet-deactivated window, and readers must defend against
// that by checking both.
func (c *Credential) IsValid(now time.Time) bool {
	if now.After(c.ExpiresAt) {
		return false
	}
	return c.Active
}
