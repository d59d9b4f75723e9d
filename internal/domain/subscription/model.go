package subscription

import (
	"time"

	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

// Subscription is a paid access window. At most one row per user is active
// at any time; a new purchase supersedes the previous row instead of
// extending it, and superseded rows are kept for audit.
type Subscription struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	PlanID    string    `db:"plan_id" json:"plan_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Active    bool      `db:"active" json:"active"`
	StarsPaid int64     `db:"stars_paid" json:"stars_paid"`

	types.BaseModel
}

func (s *Subscription) TableName() string {
	return "user_subscriptions"
}

func (s *Subscription) Validate() error {
	if s.UserID == "" {
		return ierr.NewError("user id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}
	if s.PlanID == "" {
		return ierr.NewError("plan id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}
	if !s.EndDate.After(s.StartDate) {
		return ierr.NewError("end date must be after start date").
			WithHint("Subscription end date must be after its start date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsCurrent reports whether the subscription grants access at now.
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.Active && s.EndDate.After(now)
}
