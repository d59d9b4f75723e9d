package plan

import (
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

// Plan is an immutable catalog entry describing a purchasable subscription
// package: a duration in days priced in stars. The catalog is seeded once
// via migrations.
type Plan struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	DurationDays int    `db:"duration_days" json:"duration_days"`
	Price        int64  `db:"price" json:"price"`
	Description  string `db:"description" json:"description,omitempty"`

	types.BaseModel
}

func (p *Plan) TableName() string {
	return "subscription_plans"
}

func (p *Plan) Validate() error {
	if p.Name == "" {
		return ierr.NewError("plan name is required").
			WithHint("Plan name is required").
			Mark(ierr.ErrValidation)
	}
	if p.DurationDays <= 0 {
		return ierr.NewError("plan duration must be positive").
			WithHint("Plan duration must be at least one day").
			Mark(ierr.ErrValidation)
	}
	if p.Price <= 0 {
		return ierr.NewError("plan price must be positive").
			WithHint("Plan price must be greater than 0").
			WithReportableDetails(map[string]any{
				"price": p.Price,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
