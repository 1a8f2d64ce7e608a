package setup

import (
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// DoneMsg is sent when the setup form completes.
type DoneMsg struct {
	BaseURL string
	Email   string
	Role    string
	Token   string
}

// CancelMsg is sent when the user aborts the setup form.
type CancelMsg struct{}

// Model is the first-run setup form collecting the portal connection
// settings. The token goes to the system keyring, everything else to the
// config file.
type Model struct {
	form    *huh.Form
	baseURL string
	email   string
	role    string
	token   string
	width   int
	height  int
}

// New creates a setup form pre-filled with any existing values.
func New(baseURL, email, role string, width, height int) Model {
	m := Model{
		baseURL: baseURL,
		email:   email,
		role:    role,
		width:   width,
		height:  height,
	}
	m.form = m.buildForm()
	return m
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Portal URL").
				Description("Root URL of the activity platform").
				Placeholder("https://activities.university.edu").
				Value(&m.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Email").
				Description("Your account email").
				Value(&m.email).
				Validate(validateRequired("Email")),
			huh.NewSelect[string]().
				Title("Role").
				Description("How you use the platform").
				Options(
					huh.NewOption("Student - track your applications", "student"),
					huh.NewOption("Organizer - track your activities", "organizer"),
				).
				Value(&m.role),
			huh.NewInput().
				Title("API Token").
				Description("Stored in your system keyring").
				EchoMode(huh.EchoModePassword).
				Value(&m.token).
				Validate(validateRequired("Token")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w <= 0 || w > 80 {
		w = 80
	}
	return w
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the setup form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		done := DoneMsg{
			BaseURL: strings.TrimRight(m.baseURL, "/"),
			Email:   m.email,
			Role:    m.role,
			Token:   m.token,
		}
		return m, func() tea.Msg { return done }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the setup form.
func (m Model) View() string {
	return m.form.View()
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter a full URL including scheme")
	}
	return nil
}
