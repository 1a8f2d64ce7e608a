package model

import "time"

// Role identifies how the current user interacts with the platform.
type Role string

const (
	RoleStudent   Role = "student"
	RoleOrganizer Role = "organizer"
)

// Application status constants as reported by the platform API.
const (
	ApplicationPending   = "pending"
	ApplicationApproved  = "approved"
	ApplicationRejected  = "rejected"
	ApplicationCancelled = "cancelled"
)

// Activity status constants. An activity becomes "open" once an admin
// approves it.
const (
	ActivityPendingReview = "pending_review"
	ActivityOpen          = "open"
	ActivityRejected      = "rejected"
	ActivityClosed        = "closed"
)

// Deletion request status constants.
const (
	DeletionPending  = "pending"
	DeletionApproved = "approved"
	DeletionRejected = "rejected"
)

// Application is a student's application to join an activity.
type Application struct {
	// ID is the application's identifier in the platform.
	ID int `json:"id"`

	// Activity is the target activity ID. It is nil when the activity
	// was deleted after the application was filed.
	Activity *int `json:"activity"`

	// ActivityTitle is denormalized so it survives activity deletion.
	ActivityTitle string `json:"activity_title"`

	// Status is one of the Application* constants.
	Status string `json:"status"`

	// SubmittedAt is when the student filed the application.
	SubmittedAt time.Time `json:"submitted_at"`

	// DecisionAt is when an organizer approved or rejected it, if ever.
	DecisionAt *time.Time `json:"decision_at,omitempty"`

	// Notes carries the organizer's decision notes (e.g. a rejection
	// reason).
	Notes string `json:"notes,omitempty"`
}

// Activity is an organizer-created activity going through admin approval.
type Activity struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	OrganizerEmail string    `json:"organizer_email"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// RejectionReason is set by the admin when Status is rejected.
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// DeletionRequest is an organizer's request to delete an activity that
// already has participants, pending admin review.
type DeletionRequest struct {
	ID          int        `json:"id"`
	Activity    int        `json:"activity"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote  string     `json:"review_note,omitempty"`
}
