package ledger

// SeedBalance is a test helper that sets one balance directly on the
// registry, bypassing the service's validation and persistence.
func SeedBalance(r *Registry, username string, currency Currency, amount float64) {
	acct := r.get(username)
	if acct == nil {
		return
	}
	acct.mu.Lock()
	acct.balances[currency] = amount
	acct.mu.Unlock()
}
