// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/armario-tui/internal/api"
	"github.com/jeranaias/armario-tui/internal/ui/components"
	"github.com/jeranaias/armario-tui/internal/ui/styles"
	"github.com/jeranaias/armario-tui/internal/util"
)

// column is one garment table column. Width 0 takes the remaining space.
type column struct {
	title string
	width int
	value func(api.Garment) string
}

var wardrobeColumns = []column{
	{"Nombre", 0, func(g api.Garment) string { return g.Name }},
	{"Tipo", 14, func(g api.Garment) string { return g.Category }},
	{"Color", 10, func(g api.Garment) string { return g.Color }},
	{"Temporada", 11, func(g api.Garment) string { return g.Season }},
}

const minNameWidth = 12

// Wardrobe lists the signed-in user's garments.
type Wardrobe struct {
	ctx      context.Context
	lister   GarmentLister
	sessions Sessions
	theme    *styles.Theme
	keys     WardrobeKeyMap

	garments []api.Garment
	loaded   bool
	loading  bool
	seq      int
	cursor   int
	offset   int
	spinner  components.Spinner

	width  int
	height int
}

// NewWardrobe builds the list screen. Nothing is fetched until Activate.
func NewWardrobe(ctx context.Context, lister GarmentLister, sessions Sessions, theme *styles.Theme) Wardrobe {
	spin := components.NewSpinner()
	spin.SetMessage("Loading your wardrobe")
	spin.SetShowTimer(true)
	return Wardrobe{
		ctx:      ctx,
		lister:   lister,
		sessions: sessions,
		theme:    theme,
		keys:     DefaultWardrobeKeyMap(),
		spinner:  spin,
	}
}

// Activate is called each time the screen is shown: the list is
// cleared and fetched again.
func (m Wardrobe) Activate() (Wardrobe, tea.Cmd) {
	m.garments = nil
	m.loaded = false
	m.cursor, m.offset = 0, 0
	return m.fetch()
}

// Deactivate drops in-flight results and the list.
func (m Wardrobe) Deactivate() Wardrobe {
	m.seq++
	m.loading = false
	m.garments = nil
	m.loaded = false
	m.spinner.Stop()
	return m
}

// SetSize records the area available to the list.
func (m Wardrobe) SetSize(width, height int) Wardrobe {
	m.width, m.height = width, height
	m.clampScroll()
	return m
}

// Keys returns the bindings to advertise.
func (m Wardrobe) Keys() []key.Binding { return m.keys.ShortHelp() }

// Garments returns the loaded list.
func (m Wardrobe) Garments() []api.Garment { return m.garments }

// Loading reports whether a fetch is in flight.
func (m Wardrobe) Loading() bool { return m.loading }

// Cursor returns the selected row.
func (m Wardrobe) Cursor() int { return m.cursor }

// Summary is a one-line description for the status bar.
func (m Wardrobe) Summary() string {
	switch {
	case m.loading:
		return "loading..."
	case !m.loaded:
		return ""
	default:
		return fmt.Sprintf("%d prendas", len(m.garments))
	}
}

func (m Wardrobe) fetch() (Wardrobe, tea.Cmd) {
	m.seq++
	m.loading = true
	seq, ctx, lister := m.seq, m.ctx, m.lister
	tick := m.spinner.Start()
	return m, tea.Batch(tick, func() tea.Msg {
		garments, err := lister.ListGarments(ctx)
		return GarmentsMsg{Seq: seq, Garments: garments, Err: err}
	})
}

// Update handles keys and fetch results.
func (m Wardrobe) Update(msg tea.Msg) (Wardrobe, tea.Cmd) {
	switch msg := msg.(type) {
	case GarmentsMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.spinner.Stop()
		if msg.Err != nil {
			// A rejected session is handled by the session manager; the
			// list is left as it was either way.
			return m, notice(components.NoticeError, DescribeError(msg.Err))
		}
		m.garments = msg.Garments
		m.loaded = true
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			return m.fetch()
		case key.Matches(msg, m.keys.Logout):
			sessions, ctx := m.sessions, m.ctx
			m = m.Deactivate()
			return m, func() tea.Msg {
				sessions.Logout(ctx)
				return LogoutDoneMsg{}
			}
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		case key.Matches(msg, m.keys.Top):
			m.move(-len(m.garments))
		case key.Matches(msg, m.keys.Bottom):
			m.move(len(m.garments))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Wardrobe) move(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.garments) {
		m.cursor = len(m.garments) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()
}

// visibleRows is the number of list rows that fit under the title and
// the column header.
func (m Wardrobe) visibleRows() int {
	if m.height <= 0 {
		return len(m.garments)
	}
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Wardrobe) clampScroll() {
	if m.cursor >= len(m.garments) {
		m.cursor = max(len(m.garments)-1, 0)
	}
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// columnWidths sizes the name column to the remaining width. On narrow
// terminals only the name and type are shown.
func (m Wardrobe) columnWidths() []int {
	cols := wardrobeColumns
	if m.theme.Narrow() {
		cols = cols[:2]
	}
	widths := make([]int, len(cols))
	fixed := 0
	for i, c := range cols {
		widths[i] = c.width
		fixed += c.width + 2
	}
	total := m.width
	if total <= 0 {
		total = 80
	}
	widths[0] = max(total-fixed-2, minNameWidth)
	return widths
}

func (m Wardrobe) row(g api.Garment, widths []int) string {
	cells := make([]string, len(widths))
	for i, w := range widths {
		v := wardrobeColumns[i].value(g)
		if v == "" {
			v = "-"
		}
		cells[i] = util.PadWidth(v, w)
	}
	return " " + strings.Join(cells, "  ")
}

// View renders the list.
func (m Wardrobe) View() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Title.Render("Your wardrobe"))
	b.WriteString("\n")

	switch {
	case m.loading && !m.loaded:
		b.WriteString(m.spinner.View())
		return b.String()
	case !m.loaded:
		b.WriteString(t.Muted.Render("Press r to load your garments."))
		return b.String()
	case len(m.garments) == 0:
		b.WriteString(t.Muted.Render("No garments yet."))
		return b.String()
	}

	widths := m.columnWidths()
	titles := make([]string, len(widths))
	for i, w := range widths {
		titles[i] = util.PadWidth(wardrobeColumns[i].title, w)
	}
	b.WriteString(t.ListHeader.Render(" " + strings.Join(titles, "  ")))
	b.WriteString("\n")

	end := min(m.offset+m.visibleRows(), len(m.garments))
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		line := m.row(m.garments[i], widths)
		if i == m.cursor {
			rows = append(rows, t.ListSelected.Render(line))
		} else {
			rows = append(rows, t.ListRow.Render(line))
		}
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.loading {
		b.WriteString("\n" + m.spinner.View())
	}
	return b.String()
}
