package kv

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("greeting", "hello"); err != nil {
		t.Fatalf("setting key: %v", err)
	}

	value, ok, err := s.Get("greeting")
	if err != nil {
		t.Fatalf("getting key: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if value != "hello" {
		t.Fatalf("expected %q, got %q", "hello", value)
	}
}

func TestSQLiteStoreMissingKey(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Get("absent")
	if err != nil {
		t.Fatalf("getting absent key: %v", err)
	}
	if ok {
		t.Fatal("expected absent key to report ok=false")
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("k", "first"); err != nil {
		t.Fatalf("setting key: %v", err)
	}
	if err := s.Set("k", "second"); err != nil {
		t.Fatalf("overwriting key: %v", err)
	}

	value, ok, err := s.Get("k")
	if err != nil || !ok {
		t.Fatalf("getting key: ok=%v err=%v", ok, err)
	}
	if value != "second" {
		t.Fatalf("expected overwritten value, got %q", value)
	}
}

func TestSQLiteStoreDelete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("setting key: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("deleting key: %v", err)
	}

	_, ok, err := s.Get("k")
	if err != nil {
		t.Fatalf("getting deleted key: %v", err)
	}
	if ok {
		t.Fatal("expected deleted key to be absent")
	}

	// Deleting an absent key is a no-op.
	if err := s.Delete("k"); err != nil {
		t.Fatalf("deleting absent key: %v", err)
	}
}
