// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gate keeps signed-out users out of protected areas and
// signed-in users out of public ones.
package gate

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/armario-tui/internal/session"
	"github.com/jeranaias/armario-tui/internal/ui/components"
)

// =============================================================================
// DECISION
// =============================================================================

// Area is a group of screens sharing one access rule.
type Area int

const (
	// AreaPublic holds screens for signed-out users (login).
	AreaPublic Area = iota
	// AreaProtected holds screens that need a session.
	AreaProtected
)

// String returns the area name.
func (a Area) String() string {
	if a == AreaProtected {
		return "protected"
	}
	return "public"
}

// Decision is what the gate does for a given session state.
type Decision int

const (
	// Wait shows a neutral indicator while the session restores.
	Wait Decision = iota
	// Render shows the area's content.
	Render
	// RedirectLogin sends a signed-out user to the login route.
	RedirectLogin
	// RedirectHome sends a signed-in user to the home route.
	RedirectHome
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Route returns the redirect target, or "" when d does not redirect.
func (d Decision) Route() session.Route {
	switch d {
	case RedirectLogin:
		return session.RouteLogin
	case RedirectHome:
		return session.RouteHome
	default:
		return ""
	}
}

// Decide maps session state to a decision for area. Nothing redirects
// while loading.
func Decide(area Area, loading, authenticated bool) Decision {
	switch {
	case loading:
		return Wait
	case area == AreaProtected && !authenticated:
		return RedirectLogin
	case area == AreaPublic && authenticated:
		return RedirectHome
	default:
		return Render
	}
}

// =============================================================================
// GATE COMPONENT
// =============================================================================

// SessionMsg feeds the current session state to a Gate.
type SessionMsg struct {
	Loading       bool
	Authenticated bool
}

// RedirectMsg asks the app to switch to Route.
type RedirectMsg struct {
	Route session.Route
}

type input struct {
	loading       bool
	authenticated bool
}

// Gate wraps one area. It re-evaluates on every SessionMsg and issues a
// redirect at most once per distinct (loading, authenticated) input.
type Gate struct {
	area     Area
	spinner  components.Spinner
	decision Decision

	last      input
	evaluated bool
}

// New returns a Gate for area, waiting until the first SessionMsg.
func New(area Area) Gate {
	s := components.NewSpinner()
	s.SetMessage("Restoring session")
	s.Start()
	return Gate{area: area, spinner: s, decision: Wait}
}

// Area returns the gated area.
func (g Gate) Area() Area { return g.area }

// Decision returns the current decision.
func (g Gate) Decision() Decision { return g.decision }

// Allowed reports whether the area's content may render.
func (g Gate) Allowed() bool { return g.decision == Render }

// Init starts the waiting indicator's animation.
func (g Gate) Init() tea.Cmd {
	return g.spinner.Tick()
}

// Update handles SessionMsg and spinner ticks.
func (g Gate) Update(msg tea.Msg) (Gate, tea.Cmd) {
	switch msg := msg.(type) {
	case SessionMsg:
		return g.evaluate(input{loading: msg.Loading, authenticated: msg.Authenticated})
	}

	var cmd tea.Cmd
	g.spinner, cmd = g.spinner.Update(msg)
	return g, cmd
}

func (g Gate) evaluate(in input) (Gate, tea.Cmd) {
	if g.evaluated && in == g.last {
		return g, nil
	}
	g.evaluated = true
	g.last = in
	g.decision = Decide(g.area, in.loading, in.authenticated)

	if g.decision == Wait {
		if g.spinner.IsActive() {
			return g, nil
		}
		tick := g.spinner.Start()
		return g, tick
	}
	g.spinner.Stop()

	if route := g.decision.Route(); route != "" {
		return g, func() tea.Msg { return RedirectMsg{Route: route} }
	}
	return g, nil
}

// View renders content when allowed, the spinner while waiting, and
// nothing while a redirect is pending.
func (g Gate) View(content string) string {
	switch g.decision {
	case Render:
		return content
	case Wait:
		return g.spinner.View()
	default:
		return ""
	}
}
