package types

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// PaymentStatus is the state of a provider-funded payment.
// The only transition is pending -> completed and it is terminal; an invoice
// that is never confirmed stays pending.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// CurrencyStars is the provider currency code for stars top-ups. It is the
// only currency the reconciler accepts.
const CurrencyStars = "XTR"

// IsMatchingCurrency compares currency codes case-insensitively
func IsMatchingCurrency(a, b string) bool {
	return strings.EqualFold(a, b)
}

// GeneratePaymentPayload builds the invoice correlation token
// `stars_<amount>_<external_id>_<nonce>`. The random nonce lets the same
// user buy the same amount more than once without colliding payloads.
func GeneratePaymentPayload(amount int64, externalID int64) string {
	nonce := make([]byte, 4)
	_, _ = rand.Read(nonce)
	return fmt.Sprintf("stars_%d_%d_%s", amount, externalID, hex.EncodeToString(nonce))
}
