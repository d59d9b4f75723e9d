package dto

import (
	"time"

	"github.com/waterdropvpn/starcore/internal/domain/ledger"
	"github.com/waterdropvpn/starcore/internal/types"
)

// BalanceResponse represents a user's stars balance
type BalanceResponse struct {
	UserID      string `json:"user_id"`
	Balance     int64  `json:"balance"`
	TotalEarned int64  `json:"total_earned"`
}

// TransactionResponse represents one ledger entry. Amount is signed:
// positive for credits, negative for debits.
type TransactionResponse struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	Amount       int64                 `json:"amount"`
	Kind         types.TransactionKind `json:"kind"`
	Description  string                `json:"description,omitempty"`
	BalanceAfter int64                 `json:"balance_after"`
	CreatedAt    time.Time             `json:"created_at"`
}

func NewTransactionResponse(t *ledger.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		Amount:       t.Amount,
		Kind:         t.Kind,
		Description:  t.Description,
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt,
	}
}
