package session

import (
	"context"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func directories(t *testing.T) map[string]Directory {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return map[string]Directory{
		"memory": NewMemoryDirectory(),
		"redis":  NewRedisDirectory(client),
	}
}

func TestDirectoryAddRemoveOnline(t *testing.T) {
	for name, d := range directories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := d.Add(ctx, "alice"); err != nil {
				t.Fatalf("add: %v", err)
			}
			if err := d.Add(ctx, "bob"); err != nil {
				t.Fatalf("add: %v", err)
			}

			online, err := d.Online(ctx)
			if err != nil {
				t.Fatalf("online: %v", err)
			}
			if len(online) != 2 || online[0] != "alice" || online[1] != "bob" {
				t.Fatalf("unexpected online list: %v", online)
			}

			if err := d.Remove(ctx, "alice"); err != nil {
				t.Fatalf("remove: %v", err)
			}
			// Removing an absent user is a no-op.
			if err := d.Remove(ctx, "ghost"); err != nil {
				t.Fatalf("remove absent: %v", err)
			}

			online, _ = d.Online(ctx)
			if len(online) != 1 || online[0] != "bob" {
				t.Fatalf("unexpected online list after remove: %v", online)
			}
		})
	}
}

func TestDirectoryKeepsDuplicateLogins(t *testing.T) {
	for name, d := range directories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			d.Add(ctx, "alice")
			d.Add(ctx, "alice")

			online, _ := d.Online(ctx)
			if len(online) != 2 {
				t.Fatalf("expected duplicate entries, got %v", online)
			}

			// Each logout removes one occurrence.
			d.Remove(ctx, "alice")
			online, _ = d.Online(ctx)
			if len(online) != 1 {
				t.Fatalf("expected one entry left, got %v", online)
			}
		})
	}
}

func TestMemoryDirectoryOnlineIsSnapshot(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()
	d.Add(ctx, "alice")

	online, _ := d.Online(ctx)
	d.Remove(ctx, "alice")
	if len(online) != 1 || online[0] != "alice" {
		t.Fatalf("snapshot mutated by later removal: %v", online)
	}
}

func TestMemoryDirectoryConcurrentChurn(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Add(ctx, "user")
				d.Online(ctx)
				d.Remove(ctx, "user")
			}
		}()
	}
	wg.Wait()

	online, _ := d.Online(ctx)
	if len(online) != 0 {
		t.Fatalf("expected empty directory after churn, got %v", online)
	}
}
