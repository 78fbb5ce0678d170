// Package rates holds the cached exchange-rate table and the quote sources
// that feed it. The table maps ordered currency pairs ("FROM-TO") to a
// multiplier such that amount_in_TO = amount_in_FROM * rate.
package rates

import "sync"

// DefaultRate is returned for any pair the cache does not know. Only pairs
// routed through USD are installed by Replace, so cross pairs such as
// "GBP-EUR" deliberately fall back to this identity rate.
const DefaultRate = 1.0

// Cache is a read-mostly rate table. Lookups run concurrently under a read
// lock; Replace builds the new table off to the side and swaps it in under
// the write lock, so readers never observe a partially updated table.
type Cache struct {
	mu    sync.RWMutex
	table map[string]float64
}

// NewCache returns an empty cache. Every lookup returns DefaultRate until the
// first Replace.
func NewCache() *Cache {
	return &Cache{table: make(map[string]float64)}
}

// Replace installs a fresh table built from per-currency rates against USD.
// For every currency C it installs "C-USD" = rate and, for C other than USD,
// the reciprocal "USD-C" = 1/rate. Non-positive rates are skipped rather than
// poisoning the reciprocal.
func (c *Cache) Replace(againstUSD map[string]float64) {
	table := make(map[string]float64, 2*len(againstUSD))
	for currency, rate := range againstUSD {
		if rate <= 0 {
			continue
		}
		table[currency+"-USD"] = rate
		if currency != "USD" {
			table["USD-"+currency] = 1 / rate
		}
	}

	c.mu.Lock()
	c.table = table
	c.mu.Unlock()
}

// Lookup returns the cached rate for an ordered pair, or DefaultRate when the
// pair is unknown.
func (c *Cache) Lookup(pair string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if rate, ok := c.table[pair]; ok {
		return rate
	}
	return DefaultRate
}

// Len reports the number of installed pairs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.table)
}
