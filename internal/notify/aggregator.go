// Package notify derives in-app notifications for the activity-approval
// platform from current entity snapshots. Nothing here is persisted as a
// notification record: every query recomputes the list, and the
// deterministic notification IDs are what carry read state and dwell
// timers across sessions.
package notify

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/minhvu/activity-notify/internal/kv"
	"github.com/minhvu/activity-notify/internal/model"
)

// Identity resolves the current user. An empty role means the caller is
// unauthenticated and gets no notifications.
type Identity interface {
	CurrentRole() model.Role
	CurrentEmail() string
}

// StaticIdentity is an Identity fixed at construction time, suitable for
// a single-user client session.
type StaticIdentity struct {
	Role  model.Role
	Email string
}

func (s StaticIdentity) CurrentRole() model.Role { return s.Role }
func (s StaticIdentity) CurrentEmail() string    { return s.Email }

// Aggregator orchestrates fetch, rule evaluation, read-state merge, and
// sorting, and exposes the notification queries consumed by the UI.
type Aggregator struct {
	src     Sources
	id      Identity
	read    *ReadStore
	tracker *PendingTracker
	now     func() time.Time
}

// NewAggregator creates an Aggregator. Read markers and dwell trackers
// are persisted in the given kv store.
func NewAggregator(src Sources, id Identity, store kv.Store) *Aggregator {
	return &Aggregator{
		src:     src,
		id:      id,
		read:    NewReadStore(store),
		tracker: NewPendingTracker(store),
		now:     time.Now,
	}
}

// Notifications evaluates the rules for the current role and returns the
// resulting notifications sorted by timestamp, newest first. Evaluation
// failures degrade to a shorter (possibly empty) list, never an error:
// notifications are advisory.
//
// Note that evaluating the organizer path also records pending-count
// observations in the dwell tracker.
func (a *Aggregator) Notifications(ctx context.Context) []model.Notification {
	now := a.now()
	isRead := a.read.Snapshot()

	var notifications []model.Notification
	switch a.id.CurrentRole() {
	case model.RoleStudent:
		apps, err := a.src.ListMyApplications(ctx)
		if err != nil {
			log.Printf("fetching applications for notifications: %v", err)
			return nil
		}
		notifications = studentRules(apps, isRead, now)

	case model.RoleOrganizer:
		notifications = organizerRules(
			ctx, a.src, a.id.CurrentEmail(), a.tracker, isRead, now,
		)

	default:
		// Unauthenticated or unrecognized role: no notifications.
		return nil
	}

	sort.Slice(notifications, func(i, j int) bool {
		if notifications[i].Timestamp.Equal(notifications[j].Timestamp) {
			return notifications[i].ID < notifications[j].ID
		}
		return notifications[i].Timestamp.After(notifications[j].Timestamp)
	})

	return notifications
}

// UnreadCount returns how many notifications have not been acknowledged.
func (a *Aggregator) UnreadCount(ctx context.Context) int {
	count := 0
	for _, n := range a.Notifications(ctx) {
		if !n.Read {
			count++
		}
	}
	return count
}

// NewCount returns how many notifications fall within the new window.
func (a *Aggregator) NewCount(ctx context.Context) int {
	count := 0
	for _, n := range a.Notifications(ctx) {
		if n.IsNew {
			count++
		}
	}
	return count
}

// PendingApplications returns the number of pending applications for a
// single activity. It is a narrow read used by card badges, independent
// of the full aggregation, and never fails: any fetch error reads as
// zero.
func (a *Aggregator) PendingApplications(ctx context.Context, activityID int) int {
	apps, err := a.src.ListActivityApplications(ctx, activityID)
	if err != nil {
		log.Printf(
			"fetching pending count for activity %d: %v", activityID, err,
		)
		return 0
	}

	pending := 0
	for _, app := range apps {
		if app.Status == model.ApplicationPending {
			pending++
		}
	}
	return pending
}

// MarkRead acknowledges a single notification ID.
func (a *Aggregator) MarkRead(id string) {
	a.read.MarkRead(id)
}

// MarkAllRead acknowledges every notification in the given list.
func (a *Aggregator) MarkAllRead(notifications []model.Notification) {
	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}
	a.read.MarkAllRead(ids)
}
