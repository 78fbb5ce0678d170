package ledger

import (
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Registry is the authoritative in-memory map of username to account. It owns
// every account record; other components reach balances only through the
// service's locked operations.
type Registry struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{accounts: make(map[string]*account)}
}

// Create inserts a zero-balance account if the username is absent. It returns
// false when the username is already taken. The insert-if-absent check runs
// under the registry write lock, so racing creators cannot both succeed.
func (r *Registry) Create(username, password string) bool {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[username]; exists {
		return false
	}
	r.accounts[username] = newAccount(username, hash)
	return true
}

// get returns the live account record, or nil when unknown.
func (r *Registry) get(username string) *account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accounts[username]
}

// Exists reports whether the username is registered.
func (r *Registry) Exists(username string) bool {
	return r.get(username) != nil
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// Export dumps every account as a persistence record, sorted by username so
// successive snapshots of the same state are byte-identical. Each account's
// balances are copied under its own lock.
func (r *Registry) Export() []Record {
	r.mu.RLock()
	accounts := make([]*account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, a)
	}
	r.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].username < accounts[j].username })

	records := make([]Record, 0, len(accounts))
	for _, a := range accounts {
		balances := a.snapshotBalances()
		records = append(records, Record{
			Username: a.username,
			Password: string(a.passwordHash),
			GBP:      balances[GBP],
			USD:      balances[USD],
			EUR:      balances[EUR],
			YEN:      balances[YEN],
		})
	}
	return records
}

// Import replaces the registry contents from persisted records. Startup-only:
// it must not run concurrently with live traffic.
func (r *Registry) Import(records []Record) {
	accounts := make(map[string]*account, len(records))
	for _, rec := range records {
		a := newAccount(rec.Username, []byte(rec.Password))
		a.balances[GBP] = rec.GBP
		a.balances[USD] = rec.USD
		a.balances[EUR] = rec.EUR
		a.balances[YEN] = rec.YEN
		accounts[rec.Username] = a
	}
	r.mu.Lock()
	r.accounts = accounts
	r.mu.Unlock()
}
