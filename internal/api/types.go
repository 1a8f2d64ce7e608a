package api

import (
	"time"

	"github.com/minhvu/activity-notify/internal/model"
)

// ErrorResponse is the platform's standard error body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// paginatedActivities is the DRF-style paginated envelope the activity
// list endpoint may return. Small deployments return a bare array; both
// shapes are accepted.
type paginatedActivities struct {
	Count   int           `json:"count"`
	Next    string        `json:"next,omitempty"`
	Results []activityDTO `json:"results"`
}

// activityDTO is an activity as serialized by the platform.
type activityDTO struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	OrganizerEmail  string `json:"organizer_email"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// applicationDTO is an application as serialized by the platform.
// Activity is a pointer because the backend nulls it out when the
// activity is deleted after approval.
type applicationDTO struct {
	ID            int    `json:"id"`
	Activity      *int   `json:"activity"`
	ActivityTitle string `json:"activity_title,omitempty"`
	Status        string `json:"status"`
	SubmittedAt   string `json:"submitted_at"`
	DecisionAt    string `json:"decision_at,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// deletionRequestDTO is a deletion request as serialized by the platform.
type deletionRequestDTO struct {
	ID          int    `json:"id"`
	Activity    int    `json:"activity"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	RequestedAt string `json:"requested_at"`
	ReviewedAt  string `json:"reviewed_at,omitempty"`
	ReviewNote  string `json:"review_note,omitempty"`
}

// profileDTO is the current user's profile.
type profileDTO struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// parseTime parses the platform's ISO-8601 timestamps. A missing or
// malformed value yields the zero time rather than an error; every
// consumer has a defensive fallback for it.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseTimePtr is parseTime for optional fields.
func parseTimePtr(s string) *time.Time {
	t := parseTime(s)
	if t.IsZero() {
		return nil
	}
	return &t
}

func (d activityDTO) toModel() model.Activity {
	return model.Activity{
		ID:              d.ID,
		Title:           d.Title,
		Description:     d.Description,
		Status:          d.Status,
		OrganizerEmail:  d.OrganizerEmail,
		CreatedAt:       parseTime(d.CreatedAt),
		UpdatedAt:       parseTime(d.UpdatedAt),
		RejectionReason: d.RejectionReason,
	}
}

func (d applicationDTO) toModel() model.Application {
	return model.Application{
		ID:            d.ID,
		Activity:      d.Activity,
		ActivityTitle: d.ActivityTitle,
		Status:        d.Status,
		SubmittedAt:   parseTime(d.SubmittedAt),
		DecisionAt:    parseTimePtr(d.DecisionAt),
		Notes:         d.Notes,
	}
}

func (d deletionRequestDTO) toModel() model.DeletionRequest {
	return model.DeletionRequest{
		ID:          d.ID,
		Activity:    d.Activity,
		Title:       d.Title,
		Status:      d.Status,
		RequestedAt: parseTime(d.RequestedAt),
		ReviewedAt:  parseTimePtr(d.ReviewedAt),
		ReviewNote:  d.ReviewNote,
	}
}
