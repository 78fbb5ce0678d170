package rates

import "context"

// Source is the external rate-quote collaborator. Latest returns the full set
// of per-currency rates quoted against USD.
type Source interface {
	Latest(ctx context.Context) (map[string]float64, error)
}

// Static is a fixed-quote source for development and tests.
type Static struct {
	Rates map[string]float64
}

// Latest returns a copy of the configured rates.
func (s Static) Latest(_ context.Context) (map[string]float64, error) {
	out := make(map[string]float64, len(s.Rates))
	for currency, rate := range s.Rates {
		out[currency] = rate
	}
	return out, nil
}

// DefaultStatic returns a Static source seeded with plausible rates for the
// four supported currencies.
func DefaultStatic() Static {
	return Static{Rates: map[string]float64{
		"USD": 1.0,
		"GBP": 1.27,
		"EUR": 1.08,
		"YEN": 0.0066,
	}}
}
