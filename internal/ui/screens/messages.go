// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package screens provides the login and wardrobe screens of the TUI.
//
// Screens never touch session storage directly. They call the session
// manager from commands, off the Bubble Tea event loop, and learn about
// the outcome through the messages below and the app's session events.
package screens

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/armario-tui/internal/api"
	"github.com/jeranaias/armario-tui/internal/session"
	"github.com/jeranaias/armario-tui/internal/ui/components"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
}

// GarmentLister fetches the signed-in user's garments.
type GarmentLister interface {
	ListGarments(ctx context.Context) ([]api.Garment, error)
}

// Sessions is the part of the session manager screens drive.
type Sessions interface {
	Login(ctx context.Context, token string, opts session.LoginOptions)
	Logout(ctx context.Context)
}

// =============================================================================
// MESSAGES
// =============================================================================

// LoginDoneMsg reports the end of a sign-in attempt.
type LoginDoneMsg struct {
	Err error
}

// LogoutDoneMsg reports that the stored session was cleared.
type LogoutDoneMsg struct{}

// GarmentsMsg carries the result of a fetch. Seq identifies the request
// so stale results can be dropped.
type GarmentsMsg struct {
	Seq      int
	Garments []api.Garment
	Err      error
}

// NoticeMsg asks the app to show a transient notice.
type NoticeMsg struct {
	Kind components.NoticeKind
	Text string
}

func notice(kind components.NoticeKind, text string) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Kind: kind, Text: text} }
}
