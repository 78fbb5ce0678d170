package ledger

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryCreateRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if !r.Create("alice", "pw") {
		t.Fatal("first create failed")
	}
	if r.Create("alice", "other") {
		t.Fatal("duplicate create succeeded")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 account, got %d", r.Len())
	}
}

func TestRegistryConcurrentCreateSingleWinner(t *testing.T) {
	r := NewRegistry()

	const workers = 8
	wins := make(chan bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wins <- r.Create("shared", fmt.Sprintf("pw-%d", i))
		}(i)
	}
	wg.Wait()
	close(wins)

	created := 0
	for ok := range wins {
		if ok {
			created++
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one winning create, got %d", created)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 account, got %d", r.Len())
	}
}

func TestRegistryExportImportRoundTrip(t *testing.T) {
	r := NewRegistry()
	r.Create("bob", "pw2")
	r.Create("alice", "pw1")
	SeedBalance(r, "alice", GBP, 3.5)
	SeedBalance(r, "bob", YEN, 1200)

	records := r.Export()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Export is sorted by username for stable snapshots.
	if records[0].Username != "alice" || records[1].Username != "bob" {
		t.Fatalf("export not sorted: %s, %s", records[0].Username, records[1].Username)
	}
	if records[0].GBP != 3.5 || records[1].YEN != 1200 {
		t.Fatalf("balances not exported: %+v", records)
	}

	restored := NewRegistry()
	restored.Import(records)
	if restored.Len() != 2 {
		t.Fatalf("expected 2 restored accounts, got %d", restored.Len())
	}
	acct := restored.get("alice")
	if acct == nil || acct.balances[GBP] != 3.5 {
		t.Fatal("alice not restored with balances")
	}
	if string(acct.passwordHash) != records[0].Password {
		t.Fatal("credential not restored verbatim")
	}
}
