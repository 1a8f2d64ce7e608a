// Package notifications defines the contract for the derive-on-read
// notification engine. Notifications are never stored as records: every
// query recomputes them from current entity snapshots, and deterministic
// IDs join them to the persisted read markers.
package contracts

import (
	"context"
	"time"
)

// NotificationType identifies the rule that produced a notification.
type NotificationType string

const (
	TypeApplicationApproved NotificationType = "application_approved"
	TypeApplicationRejected NotificationType = "application_rejected"
	TypeActivityDeleted     NotificationType = "activity_deleted"
	TypeActivityApproved    NotificationType = "activity_approved"
	TypeActivityRejected    NotificationType = "activity_rejected"
	TypeDeletionApproved    NotificationType = "deletion_approved"
	TypeDeletionRejected    NotificationType = "deletion_rejected"
	TypePendingApplications NotificationType = "pending_applications_reminder"
)

// Notification is a derived, user-facing item.
//
// ID formats (stable across evaluations, per type):
//
//	app-approved-{applicationID}
//	app-rejected-{applicationID}
//	activity-deleted-{applicationID}
//	activity-approved-{activityID}
//	activity-rejected-{activityID}
//	deletion-approved-{requestID}
//	deletion-rejected-{requestID}
//	pending-apps-{activityID}-{count}
type Notification struct {
	ID            string
	Type          NotificationType
	Title         string
	Message       string
	Timestamp     time.Time
	Read          bool
	ActivityID    *int
	ApplicationID *int
	IsNew         bool // Timestamp within the last 24 hours
}

// Engine is the query surface consumed by the bell UI.
//
// All queries degrade on failure: a broken fetch or corrupt local state
// yields an empty (or shorter) result, never an error.
type Engine interface {
	// Notifications evaluates the rules for the current role and
	// returns the result sorted by timestamp, newest first.
	Notifications(ctx context.Context) []Notification

	// UnreadCount is the number of notifications without a read marker.
	UnreadCount(ctx context.Context) int

	// NewCount is the number of notifications inside the 24h window.
	NewCount(ctx context.Context) int

	// PendingApplications is the pending-application count for one
	// activity, for card badges. Fetch errors read as zero.
	PendingApplications(ctx context.Context, activityID int) int

	// MarkRead persists a read marker for one notification ID.
	MarkRead(id string)

	// MarkAllRead persists read markers for every given notification.
	MarkAllRead(notifications []Notification)
}

// Local state lives in a string key-value store under two keys:
//
//	readNotifications  JSON array of read notification IDs
//	pendingAppsTracker JSON object {activityID: {count, firstSeenAt}}
//
// Corrupt or missing values read as empty state; failed writes are
// logged and swallowed.
