package belllist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/activity-notify/internal/model"
	"github.com/minhvu/activity-notify/internal/theme"
)

// NotificationItem wraps a model.Notification so it can be used in a
// bubbles/list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i NotificationItem) FilterValue() string { return i.Notification.Title }

// Title returns the notification heading for the list.
func (i NotificationItem) Title() string { return i.Notification.Title }

// Description returns a short summary line for the list.
func (i NotificationItem) Description() string {
	parts := []string{
		string(i.Notification.Type),
		relativeTime(i.Notification.Timestamp),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering notifications.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification as a two-line entry: a heading
// line with badges and a dimmed first message line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(NotificationItem)
	if !ok {
		return
	}

	n := it.Notification
	isSelected := index == m.Index()

	prefix := "●"
	if n.Read {
		prefix = "○"
	}

	typeBadge := theme.TypeStyle(n.Type).Render(typeLabel(n.Type))

	newBadge := ""
	if n.IsNew {
		newBadge = theme.NewBadgeStyle.Render(" NEW")
	}

	timeStr := theme.DimmedStyle.Render("  " + relativeTime(n.Timestamp))

	heading := fmt.Sprintf("%s %s %s%s%s", prefix, typeBadge, n.Title, newBadge, timeStr)
	if n.Read {
		heading = theme.DimmedStyle.Render(heading)
	}

	message := theme.DimmedStyle.Render(firstLine(n.Message))

	if isSelected {
		heading = theme.SelectedItemStyle.Render(heading)
		message = theme.SelectedItemStyle.Render(message)
	} else {
		heading = theme.ListItemStyle.Render(heading)
		message = theme.ListItemStyle.Render("  " + message)
	}

	fmt.Fprintf(w, "%s\n%s", heading, message)
}

// typeLabel returns a short badge label for the given notification type.
func typeLabel(t model.NotificationType) string {
	switch t {
	case model.TypeApplicationApproved, model.TypeActivityApproved, model.TypeDeletionApproved:
		return "APPROVED"
	case model.TypeApplicationRejected, model.TypeActivityRejected, model.TypeDeletionRejected:
		return "REJECTED"
	case model.TypeActivityDeleted:
		return "DELETED"
	case model.TypePendingApplications:
		return "REMINDER"
	default:
		return "INFO"
	}
}

// firstLine truncates a multi-line message to its first line.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
