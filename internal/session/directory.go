// Package session tracks which usernames are currently logged in.
package session

import (
	"context"
	"sync"
)

// Directory is the online-user set. Duplicates are not prevented at this
// layer: a username logged in twice appears twice, and each logout removes
// one occurrence.
type Directory interface {
	Add(ctx context.Context, username string) error
	Remove(ctx context.Context, username string) error
	Online(ctx context.Context) ([]string, error)
}

type memoryDirectory struct {
	mu     sync.Mutex
	online []string
}

// NewMemoryDirectory builds a process-local directory.
func NewMemoryDirectory() Directory {
	return &memoryDirectory{}
}

func (d *memoryDirectory) Add(_ context.Context, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.online = append(d.online, username)
	return nil
}

func (d *memoryDirectory) Remove(_ context.Context, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, u := range d.online {
		if u == username {
			d.online = append(d.online[:i], d.online[i+1:]...)
			return nil
		}
	}
	return nil
}

// Online returns a snapshot copy, safe to iterate after the call returns.
func (d *memoryDirectory) Online(_ context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.online))
	copy(out, d.online)
	return out, nil
}
