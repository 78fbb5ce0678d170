package ledger

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.Mutex
	records []Record
	saves   int
}

// NewMemoryStore constructs an in-memory snapshot store for tests.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) LoadAll(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *memoryStore) SaveAll(_ context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]Record, len(records))
	copy(s.records, records)
	s.saves++
	return nil
}
