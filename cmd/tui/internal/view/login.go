package view

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Tim1593/shop-db2/internal/auth"
)

// LoggedInMsg is sent once the credentials belong to an active administrator.
type LoggedInMsg struct {
	Session Session
}

type loginFailedMsg struct {
	err error
}

type loginFields struct {
	userID   string
	password string
}

type LoginModel struct {
	CommonModel
	authService *auth.Service
	gate        *auth.Gate

	form    *huh.Form
	fields  *loginFields
	pending bool
	err     error
}

func NewLoginModel(authService *auth.Service, gate *auth.Gate) LoginModel {
	m := LoginModel{
		authService: authService,
		gate:        gate,
		fields:      &loginFields{},
	}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User ID").
				Value(&m.fields.userID).
				Validate(func(s string) error {
					if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
						return fmt.Errorf("must be a number")
					}

					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fields.password),
		),
	)
}

func (m LoginModel) Title() string { return "Login" }

func (m LoginModel) ShortHelp() string { return "Enter: next | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if failed, ok := msg.(loginFailedMsg); ok {
		m.err = failed.err
		m.pending = false
		m.fields.password = ""
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.pending {
		m.pending = true
		return m, m.login()
	}

	return m, cmd
}

func (m LoginModel) login() tea.Cmd {
	userID, _ := strconv.ParseInt(strings.TrimSpace(m.fields.userID), 10, 64)
	password := m.fields.password

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		token, err := m.authService.Login(ctx, userID, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}

		admin, err := m.gate.RequireAdmin(ctx, token.Value)
		if err != nil {
			return loginFailedMsg{err: err}
		}

		return LoggedInMsg{Session: Session{Admin: admin, Token: token.Value}}
	}
}

func (m LoginModel) View() string {
	s := "shop-db administration\n\n" + m.form.View()
	if m.err != nil {
		s += "\n" + errorView(m.err)
	}

	return panel(s)
}
