// Package api implements the read-only entity fetchers against the
// activity-approval platform's REST API.
package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/minhvu/activity-notify/internal/model"
)

// Portal provides the role-scoped snapshot queries the notification
// engine consumes.
type Portal struct {
	client *Client
}

// NewPortal creates a Portal against the given base URL using token for
// Bearer authentication.
func NewPortal(baseURL, token string) *Portal {
	return &Portal{client: NewClient(baseURL, token)}
}

// CurrentUser fetches the authenticated user's profile. It is used to
// resolve the caller's role and email at startup.
func (p *Portal) CurrentUser(ctx context.Context) (email string, role model.Role, err error) {
	var profile profileDTO
	if err := p.client.Get(ctx, "/api/users/profile/", &profile); err != nil {
		return "", "", fmt.Errorf("fetching current user: %w", err)
	}
	return profile.Email, model.Role(profile.Role), nil
}

// ListMyApplications returns the current student's applications.
func (p *Portal) ListMyApplications(ctx context.Context) ([]model.Application, error) {
	var dtos []applicationDTO
	err := p.client.Get(ctx, "/api/activities/applications/me/", &dtos)
	if err != nil {
		return nil, fmt.Errorf("fetching my applications: %w", err)
	}

	apps := make([]model.Application, 0, len(dtos))
	for _, d := range dtos {
		apps = append(apps, d.toModel())
	}
	return apps, nil
}

// ListActivities returns all activities visible to the current user.
// The list endpoint may answer with either a bare array or a paginated
// envelope; both are handled.
func (p *Portal) ListActivities(ctx context.Context) ([]model.Activity, error) {
	var raw json.RawMessage
	if err := p.client.Get(ctx, "/api/activities/", &raw); err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}

	var dtos []activityDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		var page paginatedActivities
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("decoding activity list: %w", err)
		}
		dtos = page.Results
	}

	activities := make([]model.Activity, 0, len(dtos))
	for _, d := range dtos {
		activities = append(activities, d.toModel())
	}
	return activities, nil
}

// ListActivityApplications returns the applications filed against a
// single activity.
func (p *Portal) ListActivityApplications(
	ctx context.Context,
	activityID int,
) ([]model.Application, error) {
	var dtos []applicationDTO
	path := fmt.Sprintf("/api/activities/%d/applications/", activityID)
	if err := p.client.Get(ctx, path, &dtos); err != nil {
		return nil, fmt.Errorf(
			"fetching applications for activity %d: %w", activityID, err,
		)
	}

	apps := make([]model.Application, 0, len(dtos))
	for _, d := range dtos {
		apps = append(apps, d.toModel())
	}
	return apps, nil
}

// ListMyDeletionRequests returns the current organizer's deletion
// requests.
func (p *Portal) ListMyDeletionRequests(ctx context.Context) ([]model.DeletionRequest, error) {
	var dtos []deletionRequestDTO
	err := p.client.Get(ctx, "/api/activities/deletion-requests/me/", &dtos)
	if err != nil {
		return nil, fmt.Errorf("fetching my deletion requests: %w", err)
	}

	reqs := make([]model.DeletionRequest, 0, len(dtos))
	for _, d := range dtos {
		reqs = append(reqs, d.toModel())
	}
	return reqs, nil
}
