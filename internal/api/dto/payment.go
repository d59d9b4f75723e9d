package dto

import (
	"time"

	"github.com/waterdropvpn/starcore/internal/domain/payment"
	"github.com/waterdropvpn/starcore/internal/types"
	"github.com/waterdropvpn/starcore/internal/validator"
)

// CreatePaymentRequest represents a request to create a pending payment.
// Payload may be left empty, in which case a fresh correlation token is
// generated for the invoice.
type CreatePaymentRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Amount  int64  `json:"amount" validate:"required,gt=0"`
	Payload string `json:"payload,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CompletePaymentRequest carries the provider's confirmation of a paid
// invoice. Currency and Amount, when present, are checked against the
// pending payment before anything is credited.
type CompletePaymentRequest struct {
	ProviderChargeID string `json:"provider_charge_id,omitempty"`
	ExternalChargeID string `json:"external_charge_id,omitempty"`
	Currency         string `json:"currency,omitempty"`
	Amount           int64  `json:"amount,omitempty"`
}

// PaymentResponse represents a payment response
type PaymentResponse struct {
	ID               string              `json:"id"`
	UserID           string              `json:"user_id"`
	Amount           int64               `json:"amount"`
	Currency         string              `json:"currency"`
	PaymentStatus    types.PaymentStatus `json:"payment_status"`
	InvoicePayload   string              `json:"invoice_payload"`
	ProviderChargeID *string             `json:"provider_charge_id,omitempty"`
	ExternalChargeID *string             `json:"external_charge_id,omitempty"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		PaymentStatus:    p.PaymentStatus,
		InvoicePayload:   p.InvoicePayload,
		ProviderChargeID: p.ProviderChargeID,
		ExternalChargeID: p.ExternalChargeID,
		CompletedAt:      p.CompletedAt,
		CreatedAt:        p.CreatedAt,
	}
}

// CompletePaymentResponse reports a completion attempt. Credited is false
// when the payment had already been completed by an earlier delivery.
type CompletePaymentResponse struct {
	Payment  *PaymentResponse `json:"payment"`
	Credited bool             `json:"credited"`
}
