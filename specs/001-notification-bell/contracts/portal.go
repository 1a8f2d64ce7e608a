// Package contracts/portal defines the activity platform REST endpoints
// the notification engine reads from.
//
// Base URL: configured portal root (e.g. https://activities.university.edu)
// Auth: Authorization: Bearer <API token>
package contracts

// The engine is read-only against the platform. Four GET endpoints plus
// the profile lookup:
//
// CurrentUser:
//   GET /api/users/profile/
//   Returns: { email, role }                role: student | organizer | staff
//
// ListMyApplications (student path):
//   GET /api/activities/applications/me/
//   Returns: [{ id, activity, activity_title, status,
//               submitted_at, decision_at, notes }]
//   activity is null when the activity was deleted after approval.
//   status: pending | approved | rejected | cancelled
//
// ListActivities (organizer path; filtered client-side by organizer_email):
//   GET /api/activities/
//   Returns either a bare array or a DRF envelope { count, next, results }.
//   [{ id, title, description, status, organizer_email,
//      created_at, updated_at, rejection_reason }]
//   status: pending_review | open | rejected | closed
//
// ListActivityApplications (pending-count source):
//   GET /api/activities/{id}/applications/
//   Same shape as ListMyApplications.
//
// ListMyDeletionRequests (organizer path):
//   GET /api/activities/deletion-requests/me/
//   Returns: [{ id, activity, title, status,
//               requested_at, reviewed_at, review_note }]
//   status: pending | approved | rejected
//
// Timestamps:
//   ISO-8601 / RFC 3339. Missing or malformed values parse to the zero
//   time; consumers fall back rather than reject.
//
// Rate limiting:
//   Respect HTTP 429 with Retry-After header. Exponential backoff
//   (1s, 2s, 4s, capped at 30s), max 3 retries.
//
// Error format:
//   { detail: "..." }
