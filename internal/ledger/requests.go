package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fxledger/fxledger/internal/notification"
)

// Request statuses. A request stays pending until the recipient accepts or
// declines it; a failed acceptance (insufficient funds) leaves it pending.
const (
	RequestPending   = "pending"
	RequestCompleted = "completed"
	RequestDeclined  = "declined"
)

// Request records an offered cross-account transfer awaiting the sender's
// confirmation by the recipient.
type Request struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Currency  Currency  `json:"currency"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// requestBook is the guarded list of pending and settled requests.
type requestBook struct {
	mu       sync.Mutex
	requests []*Request
}

// AddRequest queues a transfer offer from one user to another. Both accounts
// must exist and the currency and amount must be valid.
func (s *Service) AddRequest(ctx context.Context, from, to, code string, amount float64) (Request, bool) {
	currency, ok := ParseCurrency(code)
	if !ok {
		return Request{}, false
	}
	if amount <= 0 || from == to {
		return Request{}, false
	}
	if !s.registry.Exists(from) || !s.registry.Exists(to) {
		return Request{}, false
	}

	req := &Request{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Currency:  currency,
		Amount:    amount,
		Status:    RequestPending,
		CreatedAt: time.Now().UTC(),
	}

	s.requests.mu.Lock()
	s.requests.requests = append(s.requests.requests, req)
	s.requests.mu.Unlock()

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferRequest,
			Destination: to,
			Body:        fmt.Sprintf("%s offers you %.2f %s", from, amount, currency),
		})
	}

	return *req, true
}

// Outgoing lists requests the user has offered.
func (s *Service) Outgoing(username string) []Request {
	return s.filterRequests(func(r *Request) bool { return r.From == username })
}

// Incoming lists requests addressed to the user.
func (s *Service) Incoming(username string) []Request {
	return s.filterRequests(func(r *Request) bool { return r.To == username })
}

func (s *Service) filterRequests(keep func(*Request) bool) []Request {
	s.requests.mu.Lock()
	defer s.requests.mu.Unlock()
	out := make([]Request, 0)
	for _, r := range s.requests.requests {
		if keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

// requestAccepting is an internal marker claiming a request while its
// transfer runs, so concurrent accepts of the same request cannot both post.
const requestAccepting = "accepting"

// AcceptRequest executes a pending request as a regular transfer. When the
// transfer fails, typically for insufficient funds, the request reverts to
// pending so it can be retried or declined later.
func (s *Service) AcceptRequest(ctx context.Context, id string) bool {
	req := s.claimPending(id, requestAccepting)
	if req == nil {
		return false
	}
	ok := s.Transfer(ctx, req.From, req.To, string(req.Currency), req.Amount)

	s.requests.mu.Lock()
	if ok {
		req.Status = RequestCompleted
	} else {
		req.Status = RequestPending
	}
	s.requests.mu.Unlock()
	return ok
}

// DeclineRequest marks a pending request declined.
func (s *Service) DeclineRequest(id string) bool {
	return s.claimPending(id, RequestDeclined) != nil
}

// claimPending atomically moves a pending request to the given status and
// returns it, or nil when no pending request has that id.
func (s *Service) claimPending(id, status string) *Request {
	s.requests.mu.Lock()
	defer s.requests.mu.Unlock()
	for _, r := range s.requests.requests {
		if r.ID == id && r.Status == RequestPending {
			r.Status = status
			return r
		}
	}
	return nil
}
