package ledger

import (
	"strings"
	"sync"
)

// Currency identifies one of the four balances carried by every account.
type Currency string

const (
	GBP Currency = "GBP"
	USD Currency = "USD"
	EUR Currency = "EUR"
	YEN Currency = "YEN"
)

// Currencies lists every supported currency in a stable order. Snapshot
// records and balance maps follow this order.
var Currencies = []Currency{GBP, USD, EUR, YEN}

// ParseCurrency normalises a currency code. Codes are matched
// case-insensitively; anything outside the supported set is rejected.
func ParseCurrency(code string) (Currency, bool) {
	switch Currency(strings.ToUpper(strings.TrimSpace(code))) {
	case GBP:
		return GBP, true
	case USD:
		return USD, true
	case EUR:
		return EUR, true
	case YEN:
		return YEN, true
	default:
		return "", false
	}
}

// Pair builds the ordered rate-pair key used by the rate cache.
func Pair(from, to Currency) string {
	return string(from) + "-" + string(to)
}

// account is the registry-owned record for one user. The mutex guards the
// balances; username and password hash are immutable after creation. Callers
// outside this package never see an account directly.
type account struct {
	username     string
	passwordHash []byte

	mu       sync.Mutex
	balances map[Currency]float64
}

func newAccount(username string, passwordHash []byte) *account {
	balances := make(map[Currency]float64, len(Currencies))
	for _, c := range Currencies {
		balances[c] = 0
	}
	return &account{username: username, passwordHash: passwordHash, balances: balances}
}

// balance reads a single balance. Callers must hold a.mu.
func (a *account) balance(c Currency) float64 {
	return a.balances[c]
}

// adjust applies a signed delta to one balance. Callers must hold a.mu.
func (a *account) adjust(c Currency, delta float64) {
	a.balances[c] += delta
}

// snapshotBalances copies the balances under the account lock.
func (a *account) snapshotBalances() map[Currency]float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[Currency]float64, len(a.balances))
	for c, v := range a.balances {
		out[c] = v
	}
	return out
}
