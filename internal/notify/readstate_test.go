package notify

import (
	"errors"
	"testing"

	"github.com/minhvu/activity-notify/internal/kv"
)

// failingStore simulates an unavailable persistence backend.
type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}
func (failingStore) Set(string, string) error { return errors.New("storage unavailable") }
func (failingStore) Delete(string) error      { return errors.New("storage unavailable") }

func TestReadStoreMarkRead(t *testing.T) {
	store := kv.NewMemoryStore()
	r := NewReadStore(store)

	if r.IsRead("app-approved-7") {
		t.Fatal("fresh store must report unread")
	}

	r.MarkRead("app-approved-7")

	if !r.IsRead("app-approved-7") {
		t.Fatal("marked ID must report read")
	}
	if r.IsRead("app-approved-8") {
		t.Fatal("marking one ID must not affect others")
	}

	// A second ReadStore over the same kv sees the marker.
	if !NewReadStore(store).IsRead("app-approved-7") {
		t.Fatal("read markers must persist across instances")
	}
}

func TestReadStoreMarkReadIdempotent(t *testing.T) {
	store := kv.NewMemoryStore()
	r := NewReadStore(store)

	r.MarkRead("activity-rejected-3")
	r.MarkRead("activity-rejected-3")

	if got := len(r.Snapshot()); got != 1 {
		t.Fatalf("expected 1 marker, got %d", got)
	}
}

func TestReadStoreMarkAllRead(t *testing.T) {
	r := NewReadStore(kv.NewMemoryStore())

	r.MarkAllRead([]string{"a", "b", "", "a"})

	snapshot := r.Snapshot()
	if len(snapshot) != 2 || !snapshot["a"] || !snapshot["b"] {
		t.Fatalf("unexpected snapshot: %v", snapshot)
	}
}

func TestReadStoreCorruptStateReadsEmpty(t *testing.T) {
	store := kv.NewMemoryStore()
	if err := store.Set(readNotificationsKey, "][ nonsense"); err != nil {
		t.Fatalf("seeding corrupt state: %v", err)
	}

	r := NewReadStore(store)
	if len(r.Snapshot()) != 0 {
		t.Fatal("corrupt state must read as empty")
	}
}

func TestReadStoreSwallowsPersistenceFailures(t *testing.T) {
	r := NewReadStore(failingStore{})

	// Must not panic or surface the error.
	r.MarkRead("app-approved-1")

	if r.IsRead("app-approved-1") {
		t.Fatal("failed write cannot produce a read marker")
	}
}
