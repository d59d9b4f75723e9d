package user

import (
	"time"

	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

// User represents an account funded with stars. Balance is mutated only
// through the ledger service and must always equal the running sum of the
// user's ledger transactions.
type User struct {
	ID           string  `db:"id" json:"id"`
	ExternalID   int64   `db:"external_id" json:"external_id"`
	Username     string  `db:"username" json:"username,omitempty"`
	FirstName    string  `db:"first_name" json:"first_name,omitempty"`
	LastName     string  `db:"last_name" json:"last_name,omitempty"`
	ReferralCode string  `db:"referral_code" json:"referral_code"`
	InvitedBy    *string `db:"invited_by" json:"invited_by,omitempty"`
	Balance      int64   `db:"balance" json:"balance"`
	TotalEarned  int64   `db:"total_earned" json:"total_earned"`

	// ExpiresAt is the access expiry marker: the trial window on first
	// contact, later overwritten by the end date of each purchased
	// subscription and extended by referral bonuses.
	ExpiresAt      time.Time `db:"expires_at" json:"expires_at"`
	RegisteredAt   time.Time `db:"registered_at" json:"registered_at"`
	LastActivityAt time.Time `db:"last_activity_at" json:"last_activity_at"`

	types.BaseModel
}

func (u *User) TableName() string {
	return "users"
}

func (u *User) Validate() error {
	if u.ExternalID <= 0 {
		return ierr.NewError("external id must be positive").
			WithHint("External user ID is required").
			Mark(ierr.ErrValidation)
	}
	if u.ReferralCode == "" {
		return ierr.NewError("referral code is required").
			WithHint("Referral code is required").
			Mark(ierr.ErrValidation)
	}
	if u.Balance < 0 {
		return ierr.NewError("balance cannot be negative").
			WithHint("Balance cannot be negative").
			WithReportableDetails(map[string]any{
				"balance": u.Balance,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// HasAccess reports whether the user's access window is still open at now.
func (u *User) HasAccess(now time.Time) bool {
	return u.ExpiresAt.After(now)
}
