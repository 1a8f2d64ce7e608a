package app

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/activity-notify/internal/api"
	"github.com/minhvu/activity-notify/internal/credential"
	"github.com/minhvu/activity-notify/internal/keys"
	"github.com/minhvu/activity-notify/internal/kv"
	"github.com/minhvu/activity-notify/internal/model"
	"github.com/minhvu/activity-notify/internal/notify"
	appsync "github.com/minhvu/activity-notify/internal/sync"
	"github.com/minhvu/activity-notify/internal/theme"
	"github.com/minhvu/activity-notify/internal/ui"
	"github.com/minhvu/activity-notify/internal/ui/belllist"
	"github.com/minhvu/activity-notify/internal/ui/setup"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewSetup
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and the notification engine.
type Model struct {
	currentView   ViewState
	layout        ui.Layout
	cfg           *model.AppConfig
	cfgPath       string
	store         kv.Store
	keys          *keys.KeyMap
	bellList      belllist.Model
	setupView     setup.Model
	aggregator    *notify.Aggregator
	refresher     *appsync.Refresher
	notifications []model.Notification
	unreadCount   int
	newCount      int
	lastRefresh   time.Time
	showFullHelp  bool
	ready         bool
}

// New creates the root application model. When the portal connection is
// not yet configured (or the token is missing from the keyring), the app
// starts in the setup view.
func New(cfg *model.AppConfig, cfgPath string, store kv.Store) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewList,
		cfg:         cfg,
		cfgPath:     cfgPath,
		store:       store,
		keys:        k,
		bellList:    belllist.New(k, 80, 24),
		setupView: setup.New(
			cfg.Portal.BaseURL, cfg.Portal.Email, cfg.Portal.Role, 80, 24,
		),
	}

	token, err := credential.Get(credential.TokenKey)
	if cfg.Portal.BaseURL == "" || cfg.Portal.Role == "" || err != nil || token == "" {
		m.currentView = ViewSetup
		return m
	}

	m.buildEngine(token)
	return m
}

// buildEngine wires the portal, aggregator, and refresher from the
// current configuration.
func (m *Model) buildEngine(token string) {
	portal := api.NewPortal(m.cfg.Portal.BaseURL, token)
	identity := notify.StaticIdentity{
		Role:  model.Role(m.cfg.Portal.Role),
		Email: m.cfg.Portal.Email,
	}
	m.aggregator = notify.NewAggregator(portal, identity, m.store)

	interval := time.Duration(m.cfg.Display.PollIntervalSec) * time.Second
	m.refresher = appsync.New(m.aggregator, interval)
}

// Init starts the refresher, or the setup form on first run.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewSetup {
		return m.setupView.Init()
	}
	return m.refresher.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.bellList.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
		m.setupView.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
		return m.updateActiveView(msg)

	case setup.DoneMsg:
		m.cfg.Portal.BaseURL = msg.BaseURL
		m.cfg.Portal.Email = msg.Email
		m.cfg.Portal.Role = msg.Role
		if err := model.SaveConfig(m.cfgPath, m.cfg); err != nil {
			log.Printf("saving config: %v", err)
		}
		if err := credential.Set(credential.TokenKey, msg.Token); err != nil {
			log.Printf("storing token: %v", err)
		}
		m.buildEngine(msg.Token)
		m.currentView = ViewList
		return m, m.refresher.Start()

	case setup.CancelMsg:
		if m.aggregator == nil {
			return m, tea.Quit
		}
		m.currentView = ViewList
		return m, nil

	case appsync.RefreshResultMsg:
		m.notifications = msg.Notifications
		m.unreadCount = msg.UnreadCount
		m.newCount = msg.NewCount
		m.lastRefresh = msg.At
		cmd := m.bellList.SetNotifications(msg.Notifications)
		return m, tea.Batch(cmd, m.refresher.WaitForNextResult())

	case belllist.MarkReadMsg:
		m.aggregator.MarkRead(msg.ID)
		return m, m.applyLocalRead(func(n *model.Notification) bool {
			return n.ID == msg.ID
		})

	case belllist.MarkAllReadMsg:
		m.aggregator.MarkAllRead(msg.Notifications)
		return m, m.applyLocalRead(func(*model.Notification) bool {
			return true
		})

	case belllist.RefreshRequestMsg:
		return m, m.refresher.Refresh()

	case tea.KeyMsg:
		if m.currentView == ViewList {
			switch msg.String() {
			case "q", "ctrl+c":
				if m.refresher != nil {
					m.refresher.Stop()
				}
				return m, tea.Quit
			case "?":
				m.showFullHelp = !m.showFullHelp
				return m, nil
			}
		}
		if m.currentView == ViewSetup && msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.updateActiveView(msg)
}

// applyLocalRead marks matching notifications read in the local copy so
// the list reflects the acknowledgement immediately, without waiting for
// the next evaluation.
func (m *Model) applyLocalRead(match func(*model.Notification) bool) tea.Cmd {
	unread := 0
	for i := range m.notifications {
		if match(&m.notifications[i]) {
			m.notifications[i].Read = true
		}
		if !m.notifications[i].Read {
			unread++
		}
	}
	m.unreadCount = unread
	return m.bellList.SetNotifications(m.notifications)
}

// updateActiveView forwards a message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	default:
		m.bellList, cmd = m.bellList.Update(msg)
	}
	return m, cmd
}

// View renders the full application frame.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var content string
	switch m.currentView {
	case ViewSetup:
		content = m.setupView.View()
	default:
		content = m.bellList.View()
	}

	header := m.layout.RenderHeader("Activity Notifications", m.badge())
	statusBar := m.layout.RenderStatusBar(m.helpHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// badge summarizes unread and new counts for the header.
func (m Model) badge() string {
	if m.currentView == ViewSetup {
		return "setup"
	}
	badge := fmt.Sprintf("%d unread", m.unreadCount)
	if m.newCount > 0 {
		badge = fmt.Sprintf("%d new · %s", m.newCount, badge)
	}
	if !m.lastRefresh.IsZero() {
		badge += " · " + m.lastRefresh.Format("15:04")
	}
	return badge
}

// helpHints renders the keyboard hints for the status bar.
func (m Model) helpHints() string {
	if m.currentView == ViewSetup {
		return "enter: next · esc: cancel"
	}

	bindings := m.keys.ShortHelp()
	if m.showFullHelp {
		bindings = nil
		for _, group := range m.keys.FullHelp() {
			bindings = append(bindings, group...)
		}
	}

	var hints []string
	for _, b := range bindings {
		hints = append(hints, fmt.Sprintf(
			"%s: %s", b.Help().Key, b.Help().Desc,
		))
	}
	return theme.HelpStyle.Render(strings.Join(hints, " · "))
}
