package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSnapshotWriteThenReadReturnsLatestPayload(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Write(context.Background(), "task-storage", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if err := store.Write(context.Background(), "task-storage", []byte(`[{"id":"b"}]`)); err != nil {
		t.Fatalf("overwrite snapshot: %v", err)
	}

	payload, ok, err := store.Read(context.Background(), "task-storage")
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !ok {
		t.Fatalf("expected snapshot to exist")
	}
	if string(payload) != `[{"id":"b"}]` {
		t.Fatalf("expected latest payload, got %q", payload)
	}

	names, err := store.Names(context.Background())
	if err != nil {
		t.Fatalf("list names: %v", err)
	}
	if len(names) != 1 || names[0] != "task-storage" {
		t.Fatalf("expected a single task-storage snapshot, got %v", names)
	}
}

func TestSnapshotReadMissingName(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	payload, ok, err := store.Read(context.Background(), "category-storage")
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if ok {
		t.Fatalf("expected missing snapshot, got %q", payload)
	}
}

func TestSnapshotWriteRequiresName(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Write(context.Background(), "  ", []byte(`[]`)); err == nil {
		t.Fatalf("expected error for blank snapshot name")
	}
}

func TestOpenSnapshotStoreRequiresPath(t *testing.T) {
	if _, err := OpenSnapshotStore(context.Background(), " "); err == nil {
		t.Fatalf("expected error for blank path")
	}
}

func TestOpenSnapshotStoreIsIdempotentOnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lazytodo.db")

	first, err := OpenSnapshotStore(context.Background(), path)
	if err != nil {
		t.Fatalf("open snapshot store: %v", err)
	}
	if err := first.Write(context.Background(), "category-storage", []byte(`[]`)); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close snapshot store: %v", err)
	}

	second, err := OpenSnapshotStore(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen snapshot store: %v", err)
	}
	defer second.Close()

	payload, ok, err := second.Read(context.Background(), "category-storage")
	if err != nil || !ok {
		t.Fatalf("expected snapshot after reopen, ok=%v err=%v", ok, err)
	}
	if string(payload) != `[]` {
		t.Fatalf("unexpected payload %q", payload)
	}
}

func newTestStore(t *testing.T) (*SnapshotStore, func()) {
	t.Helper()
	store, err := OpenSnapshotStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open snapshot store: %v", err)
	}
	return store, func() {
		_ = store.Close()
	}
}
