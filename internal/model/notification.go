package model

import "time"

// NotificationType identifies what kind of event a notification reports.
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

// Notification is an alert derived from current entity state. It is
// recomputed on every query and never persisted; only its ID carries
// meaning across evaluations, serving as the join key for read markers
// and the dwell tracker.
type Notification struct {
	// ID is deterministic, built from the type and source entity ID
	// (plus the pending count for reminders, so a changed count yields
	// a fresh, unread notification).
	ID string `json:"id"`

	// Type identifies which rule produced this notification.
	Type NotificationType `json:"type"`

	// Title is the short human-readable heading.
	Title string `json:"title"`

	// Message is the full notification text.
	Message string `json:"message"`

	// Timestamp is the most relevant event time available on the
	// source entity, or evaluation time when none exists.
	Timestamp time.Time `json:"timestamp"`

	// Read reflects membership in the read-marker set at evaluation
	// time.
	Read bool `json:"read"`

	// ActivityID and ApplicationID are back-references for navigation.
	ActivityID    *int `json:"activity_id,omitempty"`
	ApplicationID *int `json:"application_id,omitempty"`

	// IsNew marks notifications whose timestamp falls within the last
	// 24 hours, or whose nature makes them always new (inferred
	// deletions, freshly due pending reminders).
	IsNew bool `json:"is_new"`
}
