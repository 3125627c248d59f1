// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Accent - brand color, selections, spinners
var Accent = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// AccentDeep - darker accent for backgrounds
var AccentDeep = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#4C1D95"}

// Teal - headings, user name
var Teal = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

var (
	Success = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
	Error   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	Warning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	Info    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
)

// =============================================================================
// SURFACE AND TEXT
// =============================================================================

// SurfaceDim - header and status bar background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

var (
	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
)

// SelectionBg highlights the selected list row.
var SelectionBg = lipgloss.AdaptiveColor{Light: "#DDD6FE", Dark: "#3B3655"}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusIndicators are ASCII markers shown next to colored status text.
var StatusIndicators = struct {
	Success, Error, Warning, Info string
}{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

func renderStatus(color lipgloss.AdaptiveColor, marker, message string) string {
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(marker + " " + message)
}

// RenderSuccess renders a success message.
func RenderSuccess(message string) string {
	return renderStatus(Success, StatusIndicators.Success, message)
}

// RenderError renders an error message.
func RenderError(message string) string {
	return renderStatus(Error, StatusIndicators.Error, message)
}

// RenderWarning renders a warning message.
func RenderWarning(message string) string {
	return renderStatus(Warning, StatusIndicators.Warning, message)
}

// RenderInfo renders an informational message.
func RenderInfo(message string) string {
	return renderStatus(Info, StatusIndicators.Info, message)
}
