// Package ledger implements the concurrent multi-currency account ledger:
// the account registry, the locked transfer and conversion operations, and
// the snapshot persistence that follows every successful mutation.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/fxledger/fxledger/internal/notification"
	"github.com/fxledger/fxledger/internal/rates"
	"github.com/fxledger/fxledger/internal/session"
)

// VerificationResult is the three-way outcome of Verify.
type VerificationResult int

const (
	// Rejected means the account exists but the password does not match.
	Rejected VerificationResult = iota
	// Verified means the account exists and the password matches.
	Verified
	// CreatedNew means the username was unknown and a fresh zero-balance
	// account was created for the supplied credentials.
	CreatedNew
)

// String renders the result for responses and logs.
func (v VerificationResult) String() string {
	switch v {
	case Verified:
		return "verified"
	case CreatedNew:
		return "created"
	default:
		return "rejected"
	}
}

// Service orchestrates transfers and conversions over the registry, consults
// the rate cache, tracks sessions and triggers snapshot persistence. All
// operations are total: business conditions such as insufficient funds or an
// unknown currency come back as a false/enum result, never as an error.
type Service struct {
	registry *Registry
	cache    *rates.Cache
	source   rates.Source
	store    Store
	sessions session.Directory
	notifier notification.Notifier
	logger   *slog.Logger

	requests requestBook

	// saveMu serialises snapshot writes so an older snapshot can never
	// overwrite a newer one. Snapshots are exported inside this lock, after
	// the triggering mutation has committed, so the durable copy trails
	// memory but is never ahead of it.
	saveMu sync.Mutex
}

// NewService wires the ledger service from its injected collaborators. The
// notifier may be nil.
func NewService(registry *Registry, cache *rates.Cache, source rates.Source, store Store, sessions session.Directory, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		cache:    cache,
		source:   source,
		store:    store,
		sessions: sessions,
		notifier: notifier,
		logger:   logger,
	}
}

// Load restores the registry from the persisted snapshot and primes the rate
// cache. Startup-only: not safe against live traffic.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	s.registry.Import(records)
	s.logger.Info("accounts loaded", "count", len(records))

	if err := s.RefreshRates(ctx); err != nil {
		// The cache answers 1.0 for every pair until a refresh succeeds;
		// startup proceeds on the fetch failure.
		s.logger.Warn("initial rate fetch failed", "error", err)
	}
	return nil
}

// CreateAccount registers a new zero-balance account. False when the
// username is taken.
func (s *Service) CreateAccount(ctx context.Context, username, password string) bool {
	if username == "" {
		return false
	}
	if !s.registry.Create(username, password) {
		return false
	}
	s.persist(ctx)
	return true
}

// Verify checks credentials, creating the account when the username is
// unknown. The three-way result lets callers decide whether auto-creation is
// acceptable for their flow.
func (s *Service) Verify(ctx context.Context, username, password string) VerificationResult {
	if username == "" {
		return Rejected
	}
	acct := s.registry.get(username)
	if acct == nil {
		if s.registry.Create(username, password) {
			s.persist(ctx)
			return CreatedNew
		}
		// Lost a creation race; fall through and verify against the winner.
		acct = s.registry.get(username)
		if acct == nil {
			return Rejected
		}
	}
	if bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) == nil {
		return Verified
	}
	return Rejected
}

// Login checks credentials without creating accounts and marks the user
// online on success.
func (s *Service) Login(ctx context.Context, username, password string) bool {
	acct := s.registry.get(username)
	if acct == nil {
		return false
	}
	if bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) != nil {
		return false
	}
	if err := s.sessions.Add(ctx, username); err != nil {
		s.logger.Warn("session add failed", "username", username, "error", err)
	}
	return true
}

// Logout removes one online entry for the user. Idempotent.
func (s *Service) Logout(ctx context.Context, username string) {
	if err := s.sessions.Remove(ctx, username); err != nil {
		s.logger.Warn("session remove failed", "username", username, "error", err)
	}
}

// Online lists currently logged-in usernames.
func (s *Service) Online(ctx context.Context) ([]string, error) {
	return s.sessions.Online(ctx)
}

// Balances returns a point-in-time copy of the user's balances. The read is
// consistent per field but carries no snapshot isolation against a transfer
// running at the same moment.
func (s *Service) Balances(username string) (map[Currency]float64, bool) {
	acct := s.registry.get(username)
	if acct == nil {
		return nil, false
	}
	return acct.snapshotBalances(), true
}

// Convert exchanges amount of one currency into another inside a single
// account, scaled by the cached FROM-TO rate. The check-then-mutate sequence
// runs under the account lock, so two racing conversions can never drive a
// balance negative.
func (s *Service) Convert(ctx context.Context, username, fromCode, toCode string, amount float64) bool {
	from, ok := ParseCurrency(fromCode)
	if !ok {
		return false
	}
	to, ok := ParseCurrency(toCode)
	if !ok {
		return false
	}
	if amount <= 0 {
		return false
	}
	acct := s.registry.get(username)
	if acct == nil {
		return false
	}

	rate := s.cache.Lookup(Pair(from, to))

	acct.mu.Lock()
	if acct.balance(from) < amount {
		acct.mu.Unlock()
		return false
	}
	acct.adjust(from, -amount)
	acct.adjust(to, amount*rate)
	acct.mu.Unlock()

	s.persist(ctx)
	return true
}

// Transfer moves amount of a single currency between two accounts. Both
// account locks are taken in lexicographic username order, so concurrent
// transfers touching the same pair cannot deadlock. On any failure neither
// account is mutated.
func (s *Service) Transfer(ctx context.Context, fromUser, toUser, code string, amount float64) bool {
	currency, ok := ParseCurrency(code)
	if !ok {
		return false
	}
	if amount <= 0 {
		return false
	}
	src := s.registry.get(fromUser)
	dst := s.registry.get(toUser)
	if src == nil || dst == nil {
		return false
	}

	if src == dst {
		// Self-transfer in one currency is a funds check with no movement.
		src.mu.Lock()
		sufficient := src.balance(currency) >= amount
		src.mu.Unlock()
		return sufficient
	}

	first, second := src, dst
	if second.username < first.username {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()

	if src.balance(currency) < amount {
		second.mu.Unlock()
		first.mu.Unlock()
		return false
	}
	src.adjust(currency, -amount)
	dst.adjust(currency, amount)

	second.mu.Unlock()
	first.mu.Unlock()

	s.persist(ctx)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransfer,
			Destination: toUser,
			Body:        fmt.Sprintf("You received %.2f %s from %s", amount, currency, fromUser),
		})
	}
	return true
}

// Credit adds funds to one balance. Administrative entry point, also used to
// seed accounts in tests.
func (s *Service) Credit(ctx context.Context, username, code string, amount float64) bool {
	currency, ok := ParseCurrency(code)
	if !ok {
		return false
	}
	if amount <= 0 {
		return false
	}
	acct := s.registry.get(username)
	if acct == nil {
		return false
	}

	acct.mu.Lock()
	acct.adjust(currency, amount)
	acct.mu.Unlock()

	s.persist(ctx)
	return true
}

// RefreshRates fetches the full quote set and swaps the cache contents. On a
// fetch failure the cache keeps its previous table.
func (s *Service) RefreshRates(ctx context.Context) error {
	quoted, err := s.source.Latest(ctx)
	if err != nil {
		s.logger.Error("rate fetch failed", "error", err)
		return err
	}
	s.cache.Replace(quoted)
	s.logger.Info("exchange rates refreshed", "currencies", len(quoted))
	return nil
}

// Rate returns the cached multiplier for an ordered pair such as "USD-GBP",
// or 1.0 when the pair is unknown.
func (s *Service) Rate(pair string) float64 {
	return s.cache.Lookup(pair)
}

// persist writes the current snapshot through the store. A failure is logged
// and swallowed: memory stays authoritative and the triggering operation has
// already succeeded.
func (s *Service) persist(ctx context.Context) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.store.SaveAll(ctx, s.registry.Export()); err != nil {
		s.logger.Error("snapshot save failed", "error", err)
	}
}
