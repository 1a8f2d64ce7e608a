package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/minhvu/activity-notify/internal/model"
)

// Sources is the read-only fetch surface the rule engine consumes. It is
// implemented by api.Portal and by in-memory fakes in tests.
type Sources interface {
	// ListMyApplications returns the current student's applications.
	ListMyApplications(ctx context.Context) ([]model.Application, error)

	// ListActivities returns all activities visible to the current user.
	ListActivities(ctx context.Context) ([]model.Activity, error)

	// ListActivityApplications returns the applications filed against a
	// single activity.
	ListActivityApplications(ctx context.Context, activityID int) ([]model.Application, error)

	// ListMyDeletionRequests returns the current organizer's deletion
	// requests.
	ListMyDeletionRequests(ctx context.Context) ([]model.DeletionRequest, error)
}

// newWindow is how far back a timestamp may lie and still count as new.
const newWindow = 24 * time.Hour

// withinWindow reports whether t falls within the last 24 hours of now.
// Zero times never qualify.
func withinWindow(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	return t.After(now.Add(-newWindow))
}

// orFallback returns s, or fallback when s is empty. Entity snapshots
// can arrive with missing denormalized fields; titles degrade rather
// than reject.
func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func intPtr(v int) *int { return &v }

// studentRules derives the candidate notifications for a student from
// their application snapshot. It is deterministic: identical inputs
// produce identical IDs, timestamps, and is-new flags, because those IDs
// are the join key against the read markers across invocations.
func studentRules(
	apps []model.Application,
	isRead map[string]bool,
	now time.Time,
) []model.Notification {
	var notifications []model.Notification

	for _, app := range apps {
		switch app.Status {
		case model.ApplicationApproved:
			id := fmt.Sprintf("app-approved-%d", app.ID)
			notifications = append(notifications, model.Notification{
				ID:    id,
				Type:  model.TypeApplicationApproved,
				Title: "Application Approved",
				Message: fmt.Sprintf(
					"Your application for %q has been approved!",
					orFallback(app.ActivityTitle, "activity"),
				),
				Timestamp:     decisionTime(app),
				Read:          isRead[id],
				ActivityID:    app.Activity,
				ApplicationID: intPtr(app.ID),
				IsNew:         app.DecisionAt != nil && withinWindow(*app.DecisionAt, now),
			})

			// An approved application whose activity vanished means the
			// activity was deleted after approval. There is no event
			// record for that, so the timestamp is evaluation time and
			// the notification is always new.
			if app.Activity == nil {
				deletedID := fmt.Sprintf("activity-deleted-%d", app.ID)
				notifications = append(notifications, model.Notification{
					ID:    deletedID,
					Type:  model.TypeActivityDeleted,
					Title: "Activity Deleted",
					Message: fmt.Sprintf(
						"The activity %q you were participating in has been deleted.",
						orFallback(app.ActivityTitle, "Unknown"),
					),
					Timestamp:     now,
					Read:          isRead[deletedID],
					ApplicationID: intPtr(app.ID),
					IsNew:         true,
				})
			}

		case model.ApplicationRejected:
			id := fmt.Sprintf("app-rejected-%d", app.ID)
			message := fmt.Sprintf(
				"Your application for %q was rejected.",
				orFallback(app.ActivityTitle, "activity"),
			)
			if app.Notes != "" {
				message += "\nReason: " + app.Notes
			}
			notifications = append(notifications, model.Notification{
				ID:            id,
				Type:          model.TypeApplicationRejected,
				Title:         "Application Rejected",
				Message:       message,
				Timestamp:     decisionTime(app),
				Read:          isRead[id],
				ActivityID:    app.Activity,
				ApplicationID: intPtr(app.ID),
				IsNew:         app.DecisionAt != nil && withinWindow(*app.DecisionAt, now),
			})
		}
	}

	return notifications
}

// decisionTime returns the application's decision time, falling back to
// its submission time when no decision has been recorded.
func decisionTime(app model.Application) time.Time {
	if app.DecisionAt != nil {
		return *app.DecisionAt
	}
	return app.SubmittedAt
}

// organizerRules derives the candidate notifications for an organizer.
// Unlike studentRules it fetches per-activity applications itself,
// because every pending-count observation must also feed the dwell
// tracker; evaluation writes tracker state by design.
//
// A failed fetch of any one sub-source degrades that sub-source to empty
// rather than aborting the whole evaluation.
func organizerRules(
	ctx context.Context,
	src Sources,
	email string,
	tracker *PendingTracker,
	isRead map[string]bool,
	now time.Time,
) []model.Notification {
	var notifications []model.Notification

	activities, err := src.ListActivities(ctx)
	if err != nil {
		log.Printf("fetching activities for notifications: %v", err)
		activities = nil
	}

	for _, activity := range activities {
		if activity.OrganizerEmail != email {
			continue
		}

		switch activity.Status {
		case model.ActivityOpen:
			// Approval pings are transient: a stale approval is not
			// surfaced at all, unlike the other types which are emitted
			// regardless of age with IsNew as metadata.
			if !withinWindow(activity.UpdatedAt, now) {
				break
			}
			id := fmt.Sprintf("activity-approved-%d", activity.ID)
			notifications = append(notifications, model.Notification{
				ID:    id,
				Type:  model.TypeActivityApproved,
				Title: "Activity Approved",
				Message: fmt.Sprintf(
					"Your activity %q has been approved and is now open!",
					activity.Title,
				),
				Timestamp:  activity.UpdatedAt,
				Read:       isRead[id],
				ActivityID: intPtr(activity.ID),
				IsNew:      true,
			})

		case model.ActivityRejected:
			id := fmt.Sprintf("activity-rejected-%d", activity.ID)
			message := fmt.Sprintf(
				"Your activity %q was rejected by admin.", activity.Title,
			)
			if activity.RejectionReason != "" {
				message += "\nReason: " + activity.RejectionReason
			}
			notifications = append(notifications, model.Notification{
				ID:         id,
				Type:       model.TypeActivityRejected,
				Title:      "Activity Rejected",
				Message:    message,
				Timestamp:  activity.UpdatedAt,
				Read:       isRead[id],
				ActivityID: intPtr(activity.ID),
				IsNew:      withinWindow(activity.UpdatedAt, now),
			})
		}

		if n := pendingReminder(ctx, src, activity, tracker, isRead, now); n != nil {
			notifications = append(notifications, *n)
		}
	}

	requests, err := src.ListMyDeletionRequests(ctx)
	if err != nil {
		log.Printf("fetching deletion requests for notifications: %v", err)
		requests = nil
	}

	for _, req := range requests {
		switch req.Status {
		case model.DeletionApproved:
			id := fmt.Sprintf("deletion-approved-%d", req.ID)
			ts := reviewTime(req, now)
			notifications = append(notifications, model.Notification{
				ID:    id,
				Type:  model.TypeDeletionApproved,
				Title: "Deletion Request Approved",
				Message: fmt.Sprintf(
					"Your request to delete %q was approved.",
					orFallback(req.Title, "activity"),
				),
				Timestamp:  ts,
				Read:       isRead[id],
				ActivityID: intPtr(req.Activity),
				IsNew:      withinWindow(ts, now),
			})

		case model.DeletionRejected:
			id := fmt.Sprintf("deletion-rejected-%d", req.ID)
			ts := reviewTime(req, now)
			message := fmt.Sprintf(
				"Your request to delete %q was rejected.",
				orFallback(req.Title, "activity"),
			)
			if req.ReviewNote != "" {
				message += "\nReason: " + req.ReviewNote
			}
			notifications = append(notifications, model.Notification{
				ID:         id,
				Type:       model.TypeDeletionRejected,
				Title:      "Deletion Request Rejected",
				Message:    message,
				Timestamp:  ts,
				Read:       isRead[id],
				ActivityID: intPtr(req.Activity),
				IsNew:      withinWindow(ts, now),
			})
		}
	}

	return notifications
}

// pendingReminder observes the activity's current pending-application
// count and emits a reminder once the dwell tracker says the same count
// has been outstanding for a full day. The count is part of the
// notification ID, so a changed backlog produces a fresh, unread
// reminder and restarts the clock.
func pendingReminder(
	ctx context.Context,
	src Sources,
	activity model.Activity,
	tracker *PendingTracker,
	isRead map[string]bool,
	now time.Time,
) *model.Notification {
	apps, err := src.ListActivityApplications(ctx, activity.ID)
	if err != nil {
		log.Printf(
			"fetching applications for activity %d: %v", activity.ID, err,
		)
		return nil
	}

	pending := 0
	for _, app := range apps {
		if app.Status == model.ApplicationPending {
			pending++
		}
	}

	tracker.Observe(activity.ID, pending, now)

	if pending == 0 || !tracker.ShouldRemind(activity.ID, pending, now) {
		return nil
	}

	id := fmt.Sprintf("pending-apps-%d-%d", activity.ID, pending)
	noun := "applications"
	if pending == 1 {
		noun = "application"
	}
	return &model.Notification{
		ID:    id,
		Type:  model.TypePendingApplications,
		Title: "Pending Applications",
		Message: fmt.Sprintf(
			"%d %s for %q have been awaiting review for over a day.",
			pending, noun, activity.Title,
		),
		Timestamp:  now,
		Read:       isRead[id],
		ActivityID: intPtr(activity.ID),
		IsNew:      true,
	}
}

// reviewTime returns the deletion request's review time, falling back to
// the request time, then to evaluation time.
func reviewTime(req model.DeletionRequest, now time.Time) time.Time {
	if req.ReviewedAt != nil {
		return *req.ReviewedAt
	}
	if !req.RequestedAt.IsZero() {
		return req.RequestedAt
	}
	return now
}
