package notify

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/minhvu/activity-notify/internal/kv"
	"github.com/minhvu/activity-notify/internal/model"
)

// fakeSources is an in-memory Sources implementation for tests.
type fakeSources struct {
	apps           []model.Application
	appsErr        error
	activities     []model.Activity
	activitiesErr  error
	perActivity    map[int][]model.Application
	perActivityErr map[int]error
	requests       []model.DeletionRequest
	requestsErr    error
}

func (f *fakeSources) ListMyApplications(context.Context) ([]model.Application, error) {
	return f.apps, f.appsErr
}

func (f *fakeSources) ListActivities(context.Context) ([]model.Activity, error) {
	return f.activities, f.activitiesErr
}

func (f *fakeSources) ListActivityApplications(_ context.Context, activityID int) ([]model.Application, error) {
	if err := f.perActivityErr[activityID]; err != nil {
		return nil, err
	}
	return f.perActivity[activityID], nil
}

func (f *fakeSources) ListMyDeletionRequests(context.Context) ([]model.DeletionRequest, error) {
	return f.requests, f.requestsErr
}

var evalNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func noneRead() map[string]bool { return map[string]bool{} }

func findNotification(t *testing.T, ns []model.Notification, id string) model.Notification {
	t.Helper()
	for _, n := range ns {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("notification %q not found in %d results", id, len(ns))
	return model.Notification{}
}

func TestStudentRulesApproved(t *testing.T) {
	decided := evalNow.Add(-time.Hour)
	apps := []model.Application{{
		ID:            1,
		Activity:      intPtr(1),
		ActivityTitle: "Beach Cleanup",
		Status:        model.ApplicationApproved,
		SubmittedAt:   evalNow.Add(-48 * time.Hour),
		DecisionAt:    timePtr(decided),
	}}

	ns := studentRules(apps, noneRead(), evalNow)
	if len(ns) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(ns))
	}

	n := ns[0]
	if n.ID != "app-approved-1" {
		t.Fatalf("unexpected ID %q", n.ID)
	}
	if n.Type != model.TypeApplicationApproved {
		t.Fatalf("unexpected type %q", n.Type)
	}
	if !n.Timestamp.Equal(decided) {
		t.Fatalf("timestamp should be decision time, got %v", n.Timestamp)
	}
	if !n.IsNew {
		t.Fatal("decision one hour ago must be new")
	}
	if n.Read {
		t.Fatal("must be unread with empty markers")
	}
	if !strings.Contains(n.Message, "Beach Cleanup") {
		t.Fatalf("message should name the activity: %q", n.Message)
	}
}

func TestStudentRulesNewWindowBoundary(t *testing.T) {
	cases := []struct {
		name  string
		age   time.Duration
		isNew bool
	}{
		{"just inside", 23*time.Hour + 59*time.Minute, true},
		{"just outside", 24*time.Hour + time.Minute, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apps := []model.Application{{
				ID:         2,
				Activity:   intPtr(4),
				Status:     model.ApplicationRejected,
				DecisionAt: timePtr(evalNow.Add(-tc.age)),
			}}

			ns := studentRules(apps, noneRead(), evalNow)
			if got := ns[0].IsNew; got != tc.isNew {
				t.Fatalf("IsNew = %v, want %v", got, tc.isNew)
			}
		})
	}
}

func TestStudentRulesRejectedAppendsNotes(t *testing.T) {
	apps := []model.Application{{
		ID:            3,
		Activity:      intPtr(2),
		ActivityTitle: "Tree Planting",
		Status:        model.ApplicationRejected,
		DecisionAt:    timePtr(evalNow.Add(-2 * time.Hour)),
		Notes:         "No remaining slots",
	}}

	ns := studentRules(apps, noneRead(), evalNow)
	if !strings.Contains(ns[0].Message, "Reason: No remaining slots") {
		t.Fatalf("message should append notes: %q", ns[0].Message)
	}
}

func TestStudentRulesNoDecisionTimeFallsBackToSubmission(t *testing.T) {
	submitted := evalNow.Add(-72 * time.Hour)
	apps := []model.Application{{
		ID:          4,
		Activity:    intPtr(2),
		Status:      model.ApplicationApproved,
		SubmittedAt: submitted,
	}}

	ns := studentRules(apps, noneRead(), evalNow)
	if !ns[0].Timestamp.Equal(submitted) {
		t.Fatalf("timestamp should fall back to submission time, got %v", ns[0].Timestamp)
	}
	if ns[0].IsNew {
		t.Fatal("missing decision time must not count as new")
	}
}

func TestStudentRulesInferredDeletion(t *testing.T) {
	// Approved long ago, activity since deleted: always new.
	apps := []model.Application{{
		ID:            5,
		Activity:      nil,
		ActivityTitle: "Food Drive",
		Status:        model.ApplicationApproved,
		DecisionAt:    timePtr(evalNow.Add(-30 * 24 * time.Hour)),
	}}

	ns := studentRules(apps, noneRead(), evalNow)
	deleted := findNotification(t, ns, "activity-deleted-5")

	if deleted.Type != model.TypeActivityDeleted {
		t.Fatalf("unexpected type %q", deleted.Type)
	}
	if !deleted.IsNew {
		t.Fatal("inferred deletion must always be new")
	}
	if !deleted.Timestamp.Equal(evalNow) {
		t.Fatal("inferred deletion has no event time; timestamp is evaluation time")
	}

	// The approval notification is still emitted alongside.
	approved := findNotification(t, ns, "app-approved-5")
	if approved.IsNew {
		t.Fatal("month-old approval is not new")
	}
}

func TestStudentRulesPendingAndCancelledIgnored(t *testing.T) {
	apps := []model.Application{
		{ID: 6, Activity: intPtr(1), Status: model.ApplicationPending},
		{ID: 7, Activity: intPtr(1), Status: model.ApplicationCancelled},
	}

	if ns := studentRules(apps, noneRead(), evalNow); len(ns) != 0 {
		t.Fatalf("expected no notifications, got %d", len(ns))
	}
}

func TestStudentRulesDeterministic(t *testing.T) {
	apps := []model.Application{
		{
			ID: 1, Activity: intPtr(1), ActivityTitle: "Beach Cleanup",
			Status: model.ApplicationApproved, DecisionAt: timePtr(evalNow.Add(-time.Hour)),
		},
		{
			ID: 2, Activity: nil, ActivityTitle: "Food Drive",
			Status: model.ApplicationApproved, DecisionAt: timePtr(evalNow.Add(-50 * time.Hour)),
		},
		{
			ID: 3, Activity: intPtr(2), Status: model.ApplicationRejected,
			DecisionAt: timePtr(evalNow.Add(-2 * time.Hour)), Notes: "full",
		},
	}

	first := studentRules(apps, noneRead(), evalNow)
	second := studentRules(apps, noneRead(), evalNow)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must produce identical notifications")
	}
}

func organizerEval(t *testing.T, src *fakeSources, tracker *PendingTracker) []model.Notification {
	t.Helper()
	if tracker == nil {
		tracker = NewPendingTracker(kv.NewMemoryStore())
	}
	return organizerRules(
		context.Background(), src, "org@university.edu", tracker,
		noneRead(), evalNow,
	)
}

func TestOrganizerRulesFreshApproval(t *testing.T) {
	src := &fakeSources{activities: []model.Activity{{
		ID:             9,
		Title:          "Charity Run",
		Status:         model.ActivityOpen,
		OrganizerEmail: "org@university.edu",
		UpdatedAt:      evalNow.Add(-2 * time.Hour),
	}}}

	ns := organizerEval(t, src, nil)
	n := findNotification(t, ns, "activity-approved-9")
	if !n.IsNew {
		t.Fatal("emitted approvals are always new")
	}
	if !n.Timestamp.Equal(src.activities[0].UpdatedAt) {
		t.Fatal("approval timestamp should be the update time")
	}
}

func TestOrganizerRulesStaleApprovalSuppressed(t *testing.T) {
	src := &fakeSources{activities: []model.Activity{{
		ID:             9,
		Title:          "Charity Run",
		Status:         model.ActivityOpen,
		OrganizerEmail: "org@university.edu",
		UpdatedAt:      evalNow.Add(-2 * 24 * time.Hour),
	}}}

	for _, n := range organizerEval(t, src, nil) {
		if n.Type == model.TypeActivityApproved {
			t.Fatal("stale approvals must be suppressed entirely")
		}
	}
}

func TestOrganizerRulesRejectionEmittedRegardlessOfAge(t *testing.T) {
	src := &fakeSources{activities: []model.Activity{{
		ID:              10,
		Title:           "Bake Sale",
		Status:          model.ActivityRejected,
		OrganizerEmail:  "org@university.edu",
		UpdatedAt:       evalNow.Add(-5 * 24 * time.Hour),
		RejectionReason: "Venue unavailable",
	}}}

	ns := organizerEval(t, src, nil)
	n := findNotification(t, ns, "activity-rejected-10")
	if n.IsNew {
		t.Fatal("five-day-old rejection is not new")
	}
	if !strings.Contains(n.Message, "Reason: Venue unavailable") {
		t.Fatalf("message should append the rejection reason: %q", n.Message)
	}
}

func TestOrganizerRulesFiltersByEmail(t *testing.T) {
	src := &fakeSources{activities: []model.Activity{{
		ID:             11,
		Title:          "Not Mine",
		Status:         model.ActivityRejected,
		OrganizerEmail: "someone-else@university.edu",
		UpdatedAt:      evalNow.Add(-time.Hour),
	}}}

	if ns := organizerEval(t, src, nil); len(ns) != 0 {
		t.Fatalf("other organizers' activities must be ignored, got %d", len(ns))
	}
}

func TestOrganizerRulesPendingReminderLifecycle(t *testing.T) {
	activity := model.Activity{
		ID:             12,
		Title:          "Park Cleanup",
		Status:         model.ActivityOpen,
		OrganizerEmail: "org@university.edu",
		UpdatedAt:      evalNow.Add(-10 * 24 * time.Hour),
	}
	src := &fakeSources{
		activities: []model.Activity{activity},
		perActivity: map[int][]model.Application{12: {
			{ID: 1, Status: model.ApplicationPending},
			{ID: 2, Status: model.ApplicationPending},
			{ID: 3, Status: model.ApplicationApproved},
		}},
	}
	// First evaluation observes the backlog but must not remind yet.
	for _, n := range organizerEval(t, src, NewPendingTracker(kv.NewMemoryStore())) {
		if n.Type == model.TypePendingApplications {
			t.Fatal("reminder must not fire on first observation")
		}
	}

	// Same backlog first observed a day earlier: the reminder is due.
	tracker := NewPendingTracker(kv.NewMemoryStore())
	tracker.Observe(12, 2, evalNow.Add(-25*time.Hour))

	ns := organizerEval(t, src, tracker)
	n := findNotification(t, ns, "pending-apps-12-2")
	if !n.IsNew {
		t.Fatal("due reminders are always new")
	}
	if !strings.Contains(n.Message, "2 applications") {
		t.Fatalf("message should carry the count: %q", n.Message)
	}
}

func TestOrganizerRulesDeletionRequests(t *testing.T) {
	reviewed := evalNow.Add(-3 * time.Hour)
	src := &fakeSources{requests: []model.DeletionRequest{
		{
			ID: 20, Activity: 5, Title: "Old Workshop",
			Status: model.DeletionApproved, ReviewedAt: timePtr(reviewed),
		},
		{
			ID: 21, Activity: 6, Title: "Gala Night",
			Status:      model.DeletionRejected,
			RequestedAt: evalNow.Add(-48 * time.Hour),
			ReviewNote:  "Participants already registered",
		},
		{
			ID: 22, Activity: 7, Title: "Quiz Night",
			Status: model.DeletionPending,
		},
	}}

	ns := organizerEval(t, src, nil)

	approved := findNotification(t, ns, "deletion-approved-20")
	if !approved.Timestamp.Equal(reviewed) || !approved.IsNew {
		t.Fatalf("unexpected approved request notification: %+v", approved)
	}

	rejected := findNotification(t, ns, "deletion-rejected-21")
	if !rejected.Timestamp.Equal(src.requests[1].RequestedAt) {
		t.Fatal("unreviewed timestamp should fall back to request time")
	}
	if rejected.IsNew {
		t.Fatal("two-day-old review is not new")
	}
	if !strings.Contains(rejected.Message, "Reason: Participants already registered") {
		t.Fatalf("message should append the review note: %q", rejected.Message)
	}

	for _, n := range ns {
		if n.ID == "deletion-pending-22" || strings.Contains(n.ID, "-22") {
			t.Fatal("pending requests must not produce notifications")
		}
	}
}

func TestOrganizerRulesPartialFailureIsolation(t *testing.T) {
	src := &fakeSources{
		activities: []model.Activity{{
			ID:             9,
			Title:          "Charity Run",
			Status:         model.ActivityOpen,
			OrganizerEmail: "org@university.edu",
			UpdatedAt:      evalNow.Add(-time.Hour),
		}},
		perActivityErr: map[int]error{9: errors.New("boom")},
		requestsErr:    errors.New("deletion endpoint down"),
	}

	ns := organizerEval(t, src, nil)
	findNotification(t, ns, "activity-approved-9")
}
