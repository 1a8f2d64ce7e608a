package notify

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/minhvu/activity-notify/internal/kv"
)

// pendingAppsTrackerKey is the kv key holding the JSON map from activity
// ID to its tracker entry.
const pendingAppsTrackerKey = "pendingAppsTracker"

// remindAfter is how long the same pending count must be outstanding
// before a reminder fires.
const remindAfter = 24 * time.Hour

// trackerEntry records the last observed pending-application count for
// an activity and when exactly that count was first seen.
type trackerEntry struct {
	Count       int       `json:"count"`
	FirstSeenAt time.Time `json:"firstSeenAt"`
}

// PendingTracker measures how long a given count of pending applications
// has been outstanding per activity, and decides when a reminder is due.
// Reminders must not fire the moment applications arrive (the badge
// count already shows them) and must not refire on every re-observation;
// they fire once the same backlog has been stagnant for a full day.
type PendingTracker struct {
	store kv.Store
}

// NewPendingTracker creates a PendingTracker over the given kv store.
func NewPendingTracker(s kv.Store) *PendingTracker {
	return &PendingTracker{store: s}
}

// load returns the persisted tracker map. Missing or corrupt state reads
// as empty.
func (t *PendingTracker) load() map[string]trackerEntry {
	entries := make(map[string]trackerEntry)

	raw, ok, err := t.store.Get(pendingAppsTrackerKey)
	if err != nil {
		log.Printf("reading pending tracker: %v", err)
		return entries
	}
	if !ok {
		return entries
	}

	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("corrupt pending tracker, starting empty: %v", err)
		return map[string]trackerEntry{}
	}
	return entries
}

// save persists the tracker map. Failures are logged and swallowed; a
// lost observation only delays a reminder by one cycle.
func (t *PendingTracker) save(entries map[string]trackerEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		log.Printf("encoding pending tracker: %v", err)
		return
	}
	if err := t.store.Set(pendingAppsTrackerKey, string(data)); err != nil {
		log.Printf("persisting pending tracker: %v", err)
	}
}

// Observe records the currently observed pending count for an activity.
// A changed count restarts the dwell clock: the tracker measures how
// long this exact count has been stagnant, not how long the activity has
// had any backlog. A zero count deletes the entry.
func (t *PendingTracker) Observe(activityID, count int, now time.Time) {
	key := strconv.Itoa(activityID)
	entries := t.load()

	if count == 0 {
		if _, ok := entries[key]; !ok {
			return
		}
		delete(entries, key)
		t.save(entries)
		return
	}

	if entry, ok := entries[key]; ok && entry.Count == count {
		return
	}

	entries[key] = trackerEntry{Count: count, FirstSeenAt: now}
	t.save(entries)
}

// ShouldRemind reports whether a reminder is due for the activity: an
// entry must exist with exactly the observed count, and at least one
// whole 24h day must have elapsed since that count was first seen.
func (t *PendingTracker) ShouldRemind(activityID, count int, now time.Time) bool {
	entry, ok := t.load()[strconv.Itoa(activityID)]
	if !ok || entry.Count != count {
		return false
	}

	days := int(now.Sub(entry.FirstSeenAt) / remindAfter)
	return days >= 1
}
