// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/armario-tui/internal/ui/styles"
)

// StatusBar is the bottom line: a short status on the left and the
// active key bindings on the right.
type StatusBar struct {
	Status   string
	Bindings []key.Binding
	Width    int
	theme    *styles.Theme
}

// NewStatusBar creates an empty StatusBar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus sets the left-hand text.
func (s *StatusBar) SetStatus(status string) {
	s.Status = status
}

// SetBindings sets the shortcuts to advertise. Disabled bindings are
// skipped.
func (s *StatusBar) SetBindings(bindings ...key.Binding) {
	s.Bindings = bindings
}

// View renders the bar. Shortcuts that do not fit are dropped from the
// end.
func (s *StatusBar) View() string {
	width := s.Width
	if width < 20 {
		width = 20
	}
	inner := width - 2

	left := s.theme.Muted.Render(s.Status)
	budget := inner - lipgloss.Width(left) - 2

	var parts []string
	used := 0
	for _, b := range s.Bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		part := s.theme.ShortcutKey.Render(h.Key) + " " + s.theme.ShortcutDsc.Render(h.Desc)
		w := lipgloss.Width(part)
		if len(parts) > 0 {
			w += 2
		}
		if used+w > budget {
			break
		}
		parts = append(parts, part)
		used += w
	}
	right := strings.Join(parts, "  ")

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
