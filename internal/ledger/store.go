package ledger

import "context"

// Record is the persisted form of one account: credentials plus the four
// currency balances.
type Record struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	GBP      float64 `json:"gbp"`
	USD      float64 `json:"usd"`
	EUR      float64 `json:"eur"`
	YEN      float64 `json:"yen"`
}

// Store is the snapshot persistence gateway. SaveAll rewrites the durable
// copy in full; the service calls it after every successful mutation and
// treats failures as log-and-continue (memory stays authoritative).
type Store interface {
	LoadAll(ctx context.Context) ([]Record, error)
	SaveAll(ctx context.Context, records []Record) error
}
