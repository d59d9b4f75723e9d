package payment

import (
	"time"

	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

// Payment is an external, provider-funded top-up of a user's stars balance.
// Its invoice payload is the opaque correlation token echoed back by the
// provider on completion; the payload is unique so a redelivered completion
// notice always maps to the same row.
type Payment struct {
	ID             string              `db:"id" json:"id"`
	UserID         string              `db:"user_id" json:"user_id"`
	Amount         int64               `db:"amount" json:"amount"`
	Currency       string              `db:"currency" json:"currency"`
	PaymentStatus  types.PaymentStatus `db:"payment_status" json:"payment_status"`
	InvoicePayload string              `db:"invoice_payload" json:"invoice_payload"`

	// Charge identifiers stamped by the provider on completion.
	ProviderChargeID *string    `db:"provider_charge_id" json:"provider_charge_id,omitempty"`
	ExternalChargeID *string    `db:"external_charge_id" json:"external_charge_id,omitempty"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`

	types.BaseModel
}

func (p *Payment) TableName() string {
	return "payments"
}

func (p *Payment) Validate() error {
	if p.UserID == "" {
		return ierr.NewError("user id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}
	if p.Amount <= 0 {
		return ierr.NewError("payment amount must be positive").
			WithHint("Payment amount must be greater than 0").
			WithReportableDetails(map[string]any{
				"amount": p.Amount,
			}).
			Mark(ierr.ErrValidation)
	}
	if p.InvoicePayload == "" {
		return ierr.NewError("invoice payload is required").
			WithHint("Invoice payload is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsCompleted reports whether the payment reached its terminal state.
func (p *Payment) IsCompleted() bool {
	return p.PaymentStatus == types.PaymentStatusCompleted
}
