package types

// TransactionKind classifies a ledger entry. The balance of a user is the
// running sum of signed amounts across all kinds.
type TransactionKind string

const (
	TransactionKindDeposit  TransactionKind = "deposit"
	TransactionKindPurchase TransactionKind = "purchase"
	TransactionKindReferral TransactionKind = "referral"
)

func (k TransactionKind) Validate() bool {
	switch k {
	case TransactionKindDeposit, TransactionKindPurchase, TransactionKindReferral:
		return true
	}
	return false
}
