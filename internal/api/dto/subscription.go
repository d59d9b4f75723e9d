package dto

import (
	"time"

	"github.com/waterdropvpn/starcore/internal/domain/plan"
	"github.com/waterdropvpn/starcore/internal/domain/subscription"
	"github.com/waterdropvpn/starcore/internal/validator"
)

// PurchaseRequest represents a request to buy a plan with stars.
type PurchaseRequest struct {
	UserID string `json:"user_id" validate:"required"`
	PlanID string `json:"plan_id" validate:"required"`
}

func (r *PurchaseRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// PlanResponse represents a plan response
type PlanResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Price        int64  `json:"price"`
	Description  string `json:"description,omitempty"`
}

func NewPlanResponse(p *plan.Plan) *PlanResponse {
	return &PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		DurationDays: p.DurationDays,
		Price:        p.Price,
		Description:  p.Description,
	}
}

// SubscriptionResponse represents a subscription response
type SubscriptionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Active    bool      `json:"active"`
	StarsPaid int64     `json:"stars_paid"`
}

func NewSubscriptionResponse(s *subscription.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		PlanID:    s.PlanID,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Active:    s.Active,
		StarsPaid: s.StarsPaid,
	}
}

// PurchaseResponse reports a completed purchase, including the credential
// reissued for the new access window when issuance succeeded.
type PurchaseResponse struct {
	Subscription     *SubscriptionResponse `json:"subscription"`
	DurationDays     int                   `json:"duration_days"`
	StarsUsed        int64                 `json:"stars_used"`
	RemainingBalance int64                 `json:"remaining_balance"`
	Credential       *CredentialResponse   `json:"credential,omitempty"`
}

// SubscriptionStatusResponse reports whether the user currently has
// access, from either a paid plan or the trial window.
type SubscriptionStatusResponse struct {
	UserID       string                `json:"user_id"`
	Active       bool                  `json:"active"`
	ExpiresAt    time.Time             `json:"expires_at"`
	DaysLeft     int                   `json:"days_left"`
	PlanName     string                `json:"plan_name,omitempty"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}
