// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/armario-tui/internal/api"
	"github.com/jeranaias/armario-tui/internal/session"
	"github.com/jeranaias/armario-tui/internal/ui/components"
	"github.com/jeranaias/armario-tui/internal/ui/styles"
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
	fieldRemember
	fieldSubmit
	fieldCount
)

const formWidth = 36

// ErrNoToken is reported when the server accepts the credentials but
// hands back no session token.
var ErrNoToken = errors.New("server returned no session token")

// Login is the sign-in form: email, password and a remember-me toggle.
type Login struct {
	ctx      context.Context
	auth     Authenticator
	sessions Sessions
	theme    *styles.Theme
	keys     LoginKeyMap

	email      textinput.Model
	password   textinput.Model
	remember   bool
	focus      loginField
	submitting bool
	spinner    components.Spinner
	errText    string

	width  int
	height int
}

// NewLogin builds the form. ctx bounds the sign-in calls.
func NewLogin(ctx context.Context, auth Authenticator, sessions Sessions, theme *styles.Theme) Login {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 254
	email.Width = formWidth

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = formWidth

	spin := components.NewSpinner()
	spin.SetStyle(components.SpinnerDots)
	spin.SetMessage("Signing in")

	m := Login{
		ctx:      ctx,
		auth:     auth,
		sessions: sessions,
		theme:    theme,
		keys:     DefaultLoginKeyMap(),
		email:    email,
		password: password,
		spinner:  spin,
	}
	m.email.Focus()
	return m
}

// Init starts the cursor blink.
func (m Login) Init() tea.Cmd {
	return textinput.Blink
}

// Reset prepares the form for a fresh attempt. The email and the
// remember choice are kept; the password never is.
func (m Login) Reset() (Login, tea.Cmd) {
	m.password.Reset()
	m.errText = ""
	m.submitting = false
	m.spinner.Stop()
	if strings.TrimSpace(m.email.Value()) == "" {
		return m.setFocus(fieldEmail)
	}
	return m.setFocus(fieldPassword)
}

// SetSize records the area available to the form.
func (m Login) SetSize(width, height int) Login {
	m.width, m.height = width, height
	return m
}

// Keys returns the bindings to advertise.
func (m Login) Keys() []key.Binding { return m.keys.ShortHelp() }

// Submitting reports whether a sign-in call is in flight.
func (m Login) Submitting() bool { return m.submitting }

// Remember reports the remember-me choice.
func (m Login) Remember() bool { return m.remember }

// Error returns the inline error, if any.
func (m Login) Error() string { return m.errText }

// Update handles keys and the sign-in result.
func (m Login) Update(msg tea.Msg) (Login, tea.Cmd) {
	switch msg := msg.(type) {
	case LoginDoneMsg:
		return m.finish(msg.Err)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Next):
			return m.setFocus((m.focus + 1) % fieldCount)
		case key.Matches(msg, m.keys.Prev):
			return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case key.Matches(msg, m.keys.Toggle) && m.focus == fieldRemember:
			m.remember = !m.remember
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			switch m.focus {
			case fieldEmail:
				return m.setFocus(fieldPassword)
			case fieldRemember:
				m.remember = !m.remember
				return m, nil
			default:
				return m.submit()
			}
		}
	}

	if m.submitting {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Login) setFocus(f loginField) (Login, tea.Cmd) {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	switch f {
	case fieldEmail:
		return m, m.email.Focus()
	case fieldPassword:
		return m, m.password.Focus()
	}
	return m, nil
}

func (m Login) submit() (Login, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	switch {
	case email == "" || !strings.Contains(email, "@"):
		m.errText = "Enter a valid email"
		return m.setFocus(fieldEmail)
	case password == "":
		m.errText = "Enter your password"
		return m.setFocus(fieldPassword)
	}

	m.errText = ""
	m.submitting = true
	spin := m.spinner.Start()
	return m, tea.Batch(spin, m.loginCmd(email, password, m.remember))
}

// loginCmd runs off the event loop: the session manager publishes
// events and navigates, which feed back into the program.
func (m Login) loginCmd(email, password string, remember bool) tea.Cmd {
	ctx, auth, sessions := m.ctx, m.auth, m.sessions
	return func() tea.Msg {
		result, err := auth.Login(ctx, email, password)
		if err != nil {
			return LoginDoneMsg{Err: err}
		}
		if result == nil || result.Token == "" {
			return LoginDoneMsg{Err: ErrNoToken}
		}
		sessions.Login(ctx, result.Token, session.LoginOptions{
			UserName:   result.User.Name,
			UserID:     string(result.User.ID),
			RememberMe: remember,
		})
		return LoginDoneMsg{}
	}
}

func (m Login) finish(err error) (Login, tea.Cmd) {
	m.submitting = false
	m.spinner.Stop()
	m.password.Reset()
	if err == nil {
		m.errText = ""
		return m, nil
	}

	if errors.Is(err, api.ErrInvalidCredentials) {
		m.errText = "Wrong email or password"
		next, cmd := m.setFocus(fieldPassword)
		return next, cmd
	}
	m.errText = "Sign-in failed"
	next, focusCmd := m.setFocus(fieldPassword)
	return next, tea.Batch(focusCmd, notice(components.NoticeError, DescribeError(err)))
}

// View renders the form centered in its area.
func (m Login) View() string {
	t := m.theme
	label := func(f loginField, text string) string {
		if m.focus == f {
			return t.FocusedLabel.Render(text)
		}
		return t.Label.Render(text)
	}

	box := "[ ]"
	if m.remember {
		box = "[x]"
	}
	remember := t.Checkbox.Render(box + " Remember me")
	if m.focus == fieldRemember {
		remember = t.FocusedLabel.Render(box + " Remember me")
	}

	button := t.Button.Render("Sign in")
	if m.focus == fieldSubmit {
		button = t.ButtonActive.Render("Sign in")
	}

	lines := []string{
		t.Title.Render("Sign in to armario"),
		label(fieldEmail, "Email"),
		m.email.View(),
		"",
		label(fieldPassword, "Password"),
		m.password.View(),
		"",
		remember,
		button,
	}
	switch {
	case m.submitting:
		lines = append(lines, m.spinner.View())
	case m.errText != "":
		lines = append(lines, styles.RenderError(m.errText))
	}

	form := t.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if m.width <= 0 || m.height <= 0 {
		return form
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}
