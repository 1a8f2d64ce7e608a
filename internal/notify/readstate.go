package notify

import (
	"encoding/json"
	"log"
	"sort"

	"github.com/minhvu/activity-notify/internal/kv"
)

// readNotificationsKey is the kv key holding the JSON array of
// acknowledged notification IDs.
const readNotificationsKey = "readNotifications"

// ReadStore records which notification IDs the user has acknowledged.
// The set grows monotonically; IDs are never removed automatically.
// Persistence failures are swallowed: notifications are a best-effort
// UX feature, not a system of record.
type ReadStore struct {
	store kv.Store
}

// NewReadStore creates a ReadStore over the given kv store.
func NewReadStore(s kv.Store) *ReadStore {
	return &ReadStore{store: s}
}

// Snapshot returns the current read-marker set. Missing or corrupt
// state reads as empty.
func (r *ReadStore) Snapshot() map[string]bool {
	ids := make(map[string]bool)

	raw, ok, err := r.store.Get(readNotificationsKey)
	if err != nil {
		log.Printf("reading read markers: %v", err)
		return ids
	}
	if !ok {
		return ids
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("corrupt read markers, starting empty: %v", err)
		return ids
	}

	for _, id := range list {
		ids[id] = true
	}
	return ids
}

// IsRead reports whether id has been acknowledged.
func (r *ReadStore) IsRead(id string) bool {
	return r.Snapshot()[id]
}

// MarkRead records id as acknowledged. Marking an already-present ID is
// a no-op.
func (r *ReadStore) MarkRead(id string) {
	r.MarkAllRead([]string{id})
}

// MarkAllRead records every given ID as acknowledged.
func (r *ReadStore) MarkAllRead(ids []string) {
	set := r.Snapshot()

	changed := false
	for _, id := range ids {
		if id == "" || set[id] {
			continue
		}
		set[id] = true
		changed = true
	}
	if !changed {
		return
	}

	// Sorted output keeps the persisted value stable across runs.
	list := make([]string, 0, len(set))
	for id := range set {
		list = append(list, id)
	}
	sort.Strings(list)

	data, err := json.Marshal(list)
	if err != nil {
		log.Printf("encoding read markers: %v", err)
		return
	}
	if err := r.store.Set(readNotificationsKey, string(data)); err != nil {
		log.Printf("persisting read markers: %v", err)
	}
}
