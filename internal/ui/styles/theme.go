// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode is the [ui] theme setting.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
	ModeMono  Mode = "mono"
)

// ParseMode parses a theme name. "" means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeDark, ModeLight, ModeMono:
		return m, nil
	default:
		return ModeAuto, fmt.Errorf("unknown theme %q (want auto, dark, light or mono)", s)
	}
}

// ApplyMode installs mode on the default Lip Gloss renderer.
func ApplyMode(mode Mode) {
	switch mode {
	case ModeDark:
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		lipgloss.SetHasDarkBackground(false)
	case ModeMono:
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Theme holds the styles shared by every screen.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// Header / status bar
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderUser  lipgloss.Style
	StatusBar   lipgloss.Style
	ShortcutKey lipgloss.Style
	ShortcutDsc lipgloss.Style

	// Forms
	Title        lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	FormBox      lipgloss.Style
	Checkbox     lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style

	// Lists
	ListHeader   lipgloss.Style
	ListRow      lipgloss.Style
	ListSelected lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme detects the terminal and builds the styles.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		ColorProfile: lipgloss.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	t.HeaderUser = lipgloss.NewStyle().Foreground(Teal)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	t.ShortcutDsc = lipgloss.NewStyle().Foreground(TextMuted)

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(Teal).MarginBottom(1)
	t.Label = lipgloss.NewStyle().Foreground(TextSecondary)
	t.FocusedLabel = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)
	t.Checkbox = lipgloss.NewStyle().Foreground(TextPrimary)
	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay)
	t.ButtonActive = t.Button.
		Foreground(Accent).
		BorderForeground(Accent).
		Bold(true)

	t.ListHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)
	t.ListRow = lipgloss.NewStyle().Foreground(TextPrimary)
	t.ListSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// SetSize records the terminal size.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// Narrow reports whether the terminal is too narrow for side columns.
func (t *Theme) Narrow() bool {
	return t.Width > 0 && t.Width < 60
}
