package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex pay_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateReferralCode returns a short lowercase code suitable for
// embedding into an invite deep link, e.g. `k3v9qx2a`.
func GenerateReferralCode() string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return strings.ToLower(GenerateUUID()[:8])
	}
	id = strings.ReplaceAll(id, "-", "")
	id = strings.ReplaceAll(id, "_", "")

	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToLower(id)
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_USER               = "user"
	UUID_PREFIX_PLAN               = "plan"
	UUID_PREFIX_SUBSCRIPTION       = "subs"
	UUID_PREFIX_PAYMENT            = "pay"
	UUID_PREFIX_LEDGER_TRANSACTION = "txn"
	UUID_PREFIX_CREDENTIAL         = "cred"
)
