package testutil

import (
	"path/filepath"
	"testing"

	"github.com/minhvu/activity-notify/internal/kv"
)

// NewTestKV creates a throwaway SQLite kv store with all migrations
// applied. The database lives in the test's temp directory and the
// store is closed when the test completes.
func NewTestKV(t *testing.T) *kv.SQLiteStore {
	t.Helper()

	s, err := kv.NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("creating test kv store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test kv store: %v", err)
		}
	})

	return s
}
