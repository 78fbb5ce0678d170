package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	store := NewFileStore(path)
	ctx := context.Background()

	records := []Record{
		{Username: "alice", Password: "hash-a", GBP: 1.5, USD: 2},
		{Username: "bob", Password: "hash-b", EUR: 10, YEN: 250},
	}
	if err := store.SaveAll(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0] != records[0] || loaded[1] != records[1] {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestFileStoreMissingFileIsEmptyLedger(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope", "accounts.json"))
	records, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestFileStoreSaveReplacesWholeSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	store := NewFileStore(path)
	ctx := context.Background()

	if err := store.SaveAll(ctx, []Record{{Username: "alice"}, {Username: "bob"}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveAll(ctx, []Record{{Username: "carol"}}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Username != "carol" {
		t.Fatalf("snapshot not fully replaced: %+v", loaded)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the snapshot file, found %d entries", len(entries))
	}
}

func TestFileStoreCorruptSnapshotFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if _, err := NewFileStore(path).LoadAll(context.Background()); err == nil {
		t.Fatal("expected decode error for corrupt snapshot")
	}
}
