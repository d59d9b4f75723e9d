package ledger

import (
	"time"

	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

// Transaction is one append-only ledger entry. Amount is signed: deposits
// and referral bonuses are positive, purchases negative. The user's balance
// column is derivable as the running sum of these rows.
type Transaction struct {
	ID          string                `db:"id" json:"id"`
	UserID      string                `db:"user_id" json:"user_id"`
	Amount      int64                 `db:"amount" json:"amount"`
	Kind        types.TransactionKind `db:"kind" json:"kind"`
	Description string                `db:"description" json:"description,omitempty"`

	// BalanceAfter snapshots the balance the user held once this entry
	// was applied, for display and reconciliation.
	BalanceAfter int64     `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (t *Transaction) TableName() string {
	return "ledger_transactions"
}

func (t *Transaction) Validate() error {
	if t.UserID == "" {
		return ierr.NewError("user id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}
	if t.Amount == 0 {
		return ierr.NewError("transaction amount cannot be zero").
			WithHint("Transaction amount cannot be zero").
			Mark(ierr.ErrValidation)
	}
	if !t.Kind.Validate() {
		return ierr.NewError("unknown transaction kind").
			WithHint("Transaction kind must be deposit, purchase or referral").
			WithReportableDetails(map[string]any{
				"kind": t.Kind,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
