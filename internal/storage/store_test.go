package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "owura.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadEmptyStore(t *testing.T) {
	store := newTestStore(t)
	doc, found, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found || doc != nil {
		t.Fatalf("expected empty store, got found=%v doc=%q", found, doc)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	want := []byte(`{"debtors":[],"profits":[],"payments":[]}`)

	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}
	doc, found, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found || string(doc) != string(want) {
		t.Fatalf("got found=%v doc=%s, want %s", found, doc, want)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	doc, _, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc) != `{"v":2}` {
		t.Fatalf("last writer should win, got %s", doc)
	}
}
