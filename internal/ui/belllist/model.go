package belllist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/activity-notify/internal/keys"
	"github.com/minhvu/activity-notify/internal/model"
	"github.com/minhvu/activity-notify/internal/theme"
)

// MarkReadMsg is sent when the user acknowledges a single notification.
type MarkReadMsg struct {
	ID string
}

// MarkAllReadMsg is sent when the user acknowledges every visible
// notification.
type MarkAllReadMsg struct {
	Notifications []model.Notification
}

// RefreshRequestMsg is sent when the user asks for a manual refresh.
type RefreshRequestMsg struct{}

// Model is the notification list view.
type Model struct {
	list          list.Model
	keys          *keys.KeyMap
	notifications []model.Notification
	unreadOnly    bool
	width         int
	height        int
}

// New creates a new notification list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list: l,
		keys: k,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}

// SetNotifications replaces the displayed notifications, preserving the
// unread-only filter.
func (m *Model) SetNotifications(notifications []model.Notification) tea.Cmd {
	m.notifications = notifications
	return m.rebuildItems()
}

// rebuildItems refreshes the underlying list items from the current
// notifications and filter.
func (m *Model) rebuildItems() tea.Cmd {
	var items []list.Item
	for _, n := range m.notifications {
		if m.unreadOnly && n.Read {
			continue
		}
		items = append(items, NotificationItem{Notification: n})
	}
	return m.list.SetItems(items)
}

// Update handles messages for the notification list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			if item, ok := m.list.SelectedItem().(NotificationItem); ok {
				return m, func() tea.Msg {
					return MarkReadMsg{ID: item.Notification.ID}
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.MarkAllRead):
			notifications := m.notifications
			return m, func() tea.Msg {
				return MarkAllReadMsg{Notifications: notifications}
			}

		case key.Matches(msg, m.keys.UnreadOnly):
			m.unreadOnly = !m.unreadOnly
			if m.unreadOnly {
				m.list.Title = "Notifications (unread)"
			} else {
				m.list.Title = "Notifications"
			}
			return m, m.rebuildItems()

		case key.Matches(msg, m.keys.Refresh):
			return m, func() tea.Msg {
				return RefreshRequestMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notification list.
func (m Model) View() string {
	return m.list.View()
}
