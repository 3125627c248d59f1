// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/armario-tui/internal/ui/styles"
	"github.com/jeranaias/armario-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: brand on the left, user and platform on the
// right.
type Header struct {
	Title    string
	User     string
	Platform string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a Header with the default brand.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "armario",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetUser sets the signed-in display name. Empty hides it.
func (h *Header) SetUser(name string) {
	h.User = name
}

// SetPlatform sets the platform badge ("native" renders nothing).
func (h *Header) SetPlatform(platform string) {
	h.Platform = platform
}

// View renders the header as one full-width line.
func (h *Header) View() string {
	width := h.Width
	if width < 20 {
		width = 20
	}
	inner := width - 2

	left := h.theme.HeaderBrand.Render(h.Title)

	var right []string
	if h.Platform != "" && h.Platform != "native" {
		right = append(right, h.theme.Muted.Render("["+strings.ToUpper(h.Platform)+"]"))
	}
	if h.User != "" {
		name := util.TruncateWidth(h.User, inner/2)
		right = append(right, h.theme.HeaderUser.Render(name))
	}
	rightText := strings.Join(right, " ")

	gap := inner - lipgloss.Width(left) - lipgloss.Width(rightText)
	if gap < 1 {
		gap = 1
	}
	return h.theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + rightText)
}
