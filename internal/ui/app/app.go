// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model. It owns the two gated areas
// (login and wardrobe), the header, the status bar and the notice stack,
// and routes session events between them.
package app

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/armario-tui/internal/clock"
	"github.com/jeranaias/armario-tui/internal/gate"
	"github.com/jeranaias/armario-tui/internal/session"
	"github.com/jeranaias/armario-tui/internal/ui/components"
	"github.com/jeranaias/armario-tui/internal/ui/screens"
	"github.com/jeranaias/armario-tui/internal/ui/styles"
)

// SessionManager is the part of session.Manager the app drives.
type SessionManager interface {
	Load(ctx context.Context)
	Snapshot() session.Snapshot
	Platform() string
	Login(ctx context.Context, token string, opts session.LoginOptions)
	Logout(ctx context.Context)
}

// Backend is the remote API used by the screens.
type Backend interface {
	screens.Authenticator
	screens.GarmentLister
}

// Options tunes a Model. Zero values pick defaults.
type Options struct {
	Clock  clock.Clock
	Logger *slog.Logger
	Theme  *styles.Theme
}

// loadedMsg marks the end of the initial session restore.
type loadedMsg struct{}

var (
	quitKey    = key.NewBinding(key.WithKeys("ctrl+c"))
	dismissKey = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss"))
)

// Model is the root model.
type Model struct {
	ctx      context.Context
	sessions SessionManager
	bridge   *Bridge
	logger   *slog.Logger
	theme    *styles.Theme

	header  *components.Header
	status  *components.StatusBar
	notices components.Notices

	public    gate.Gate
	protected gate.Gate
	login     screens.Login
	wardrobe  screens.Wardrobe

	route session.Route
	snap  session.Snapshot

	width  int
	height int
}

// New builds the root model. The app starts on the home route behind
// the protected gate, which waits until the session is restored.
func New(ctx context.Context, sessions SessionManager, backend Backend, bridge *Bridge, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme()
	}

	header := components.NewHeader(opts.Theme)
	header.SetPlatform(sessions.Platform())

	return Model{
		ctx:       ctx,
		sessions:  sessions,
		bridge:    bridge,
		logger:    opts.Logger,
		theme:     opts.Theme,
		header:    header,
		status:    components.NewStatusBar(opts.Theme),
		notices:   components.NewNotices(opts.Clock),
		public:    gate.New(gate.AreaPublic),
		protected: gate.New(gate.AreaProtected),
		login:     screens.NewLogin(ctx, backend, sessions, opts.Theme),
		wardrobe:  screens.NewWardrobe(ctx, backend, sessions, opts.Theme),
		route:     session.RouteHome,
		snap:      session.Snapshot{Loading: true},
	}
}

// Route returns the current route.
func (m Model) Route() session.Route { return m.route }

// Notices returns the live notices.
func (m Model) Notices() []components.Notice { return m.notices.Items() }

// Wardrobe returns the wardrobe screen.
func (m Model) Wardrobe() screens.Wardrobe { return m.wardrobe }

// Login returns the login screen.
func (m Model) Login() screens.Login { return m.login }

// Allowed reports whether the current route's content is shown.
func (m Model) Allowed() bool { return m.activeGate().Allowed() }

// Init restores the session and starts listening for session events.
func (m Model) Init() tea.Cmd {
	ctx, sessions := m.ctx, m.sessions
	load := func() tea.Msg {
		sessions.Load(ctx)
		return loadedMsg{}
	}
	return tea.Batch(
		load,
		m.bridge.Listen(),
		m.public.Init(),
		m.protected.Init(),
		m.login.Init(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.syncChrome()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case loadedMsg:
		return m.applySession(m.sessions.Snapshot())

	case SessionEventMsg:
		listen := m.bridge.Listen()
		var expired tea.Cmd
		if msg.Event.Kind == session.EventTokenExpired {
			m.logger.Info("session expired")
			expired = m.notices.Add(components.NoticeWarning, "Your session expired. Please sign in again.")
		}
		var cmd tea.Cmd
		m, cmd = m.applySession(msg.Event.Snapshot)
		return m, tea.Batch(listen, expired, cmd)

	case NavigateMsg:
		listen := m.bridge.Listen()
		var cmd tea.Cmd
		m, cmd = m.switchTo(msg.Route)
		return m, tea.Batch(listen, cmd)

	case gate.RedirectMsg:
		return m.switchTo(msg.Route)

	case screens.NoticeMsg:
		return m, m.notices.Add(msg.Kind, msg.Text)

	case components.NoticeTickMsg:
		var cmd tea.Cmd
		m.notices, cmd = m.notices.Update(msg)
		return m, cmd

	case screens.LoginDoneMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		if msg.Err != nil {
			return m, cmd
		}
		name := m.sessions.Snapshot().Session.DisplayName()
		return m, tea.Batch(cmd, m.notices.Add(components.NoticeSuccess, "Signed in as "+name))

	case screens.LogoutDoneMsg:
		return m, m.notices.Info("Signed out")

	case screens.GarmentsMsg:
		var cmd tea.Cmd
		m.wardrobe, cmd = m.wardrobe.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Animation ticks and cursor blinks: every component filters its own.
	var cmds [4]tea.Cmd
	m.public, cmds[0] = m.public.Update(msg)
	m.protected, cmds[1] = m.protected.Update(msg)
	m.login, cmds[2] = m.login.Update(msg)
	m.wardrobe, cmds[3] = m.wardrobe.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, quitKey) {
		return m, tea.Quit
	}
	if m.route == session.RouteHome && m.notices.Len() > 0 && key.Matches(msg, dismissKey) {
		m.notices.Dismiss()
		return m, nil
	}
	if !m.activeGate().Allowed() {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.route {
	case session.RouteLogin:
		m.login, cmd = m.login.Update(msg)
	default:
		m.wardrobe, cmd = m.wardrobe.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// ROUTING
// =============================================================================

func (m *Model) activeGate() *gate.Gate {
	if m.route == session.RouteLogin {
		return &m.public
	}
	return &m.protected
}

// applySession records snap and re-evaluates the active gate.
func (m Model) applySession(snap session.Snapshot) (Model, tea.Cmd) {
	m.snap = snap
	if snap.Authenticated {
		m.header.SetUser(snap.Session.DisplayName())
	} else {
		m.header.SetUser("")
	}

	g := m.activeGate()
	wasAllowed := g.Allowed()
	var cmd tea.Cmd
	*g, cmd = g.Update(m.sessionMsg())
	if wasAllowed || !g.Allowed() {
		return m, cmd
	}
	m, enter := m.enter()
	return m, tea.Batch(cmd, enter)
}

// switchTo changes route. Repeated requests for the current route are
// ignored, so a gate redirect and a manager navigation to the same place
// switch once.
func (m Model) switchTo(route session.Route) (Model, tea.Cmd) {
	if route == "" || route == m.route {
		return m, nil
	}
	m.logger.Debug("navigate", "from", string(m.route), "to", string(route))
	if m.route == session.RouteHome {
		m.wardrobe = m.wardrobe.Deactivate()
	}
	m.route = route

	g := m.activeGate()
	var cmd tea.Cmd
	*g, cmd = g.Update(m.sessionMsg())
	if !g.Allowed() {
		return m, cmd
	}
	m, enter := m.enter()
	return m, tea.Batch(cmd, enter)
}

// enter prepares the current route's screen after its gate opened.
func (m Model) enter() (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.route {
	case session.RouteLogin:
		m.login, cmd = m.login.Reset()
	default:
		m.wardrobe, cmd = m.wardrobe.Activate()
	}
	return m, cmd
}

func (m Model) sessionMsg() gate.SessionMsg {
	return gate.SessionMsg{Loading: m.snap.Loading, Authenticated: m.snap.Authenticated}
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) resize(width, height int) Model {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.status.SetWidth(width)
	body := max(height-2, 1)
	m.login = m.login.SetSize(width, body)
	m.wardrobe = m.wardrobe.SetSize(width, body)
	return m
}

func (m Model) syncChrome() {
	switch {
	case !m.activeGate().Allowed():
		m.status.SetStatus("")
		m.status.SetBindings(key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")))
	case m.route == session.RouteLogin:
		m.status.SetStatus("signed out")
		m.status.SetBindings(m.login.Keys()...)
	default:
		m.status.SetStatus(m.wardrobe.Summary())
		bindings := m.wardrobe.Keys()
		if m.notices.Len() > 0 {
			bindings = append(bindings, dismissKey)
		}
		m.status.SetBindings(bindings...)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	header := m.header.View()
	status := m.status.View()
	notices := m.notices.View(m.width)

	var content string
	if m.route == session.RouteLogin {
		content = m.public.View(m.login.View())
	} else {
		content = m.protected.View(m.wardrobe.View())
	}

	if m.height > 0 {
		body := m.height - lipgloss.Height(header) - lipgloss.Height(status)
		if notices != "" {
			body -= lipgloss.Height(notices)
		}
		if body > 0 {
			content = lipgloss.NewStyle().Height(body).MaxHeight(body).Render(content)
		}
	}

	parts := []string{header, content}
	if notices != "" {
		parts = append(parts, notices)
	}
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
