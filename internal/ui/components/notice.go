// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/armario-tui/internal/clock"
	"github.com/jeranaias/armario-tui/internal/ui/styles"
)

// =============================================================================
// NOTICE TYPES
// =============================================================================

// NoticeKind selects the color and marker of a notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// Default lifetimes. Errors stay longer so they can be read.
const (
	InfoNoticeDuration  = 4 * time.Second
	ErrorNoticeDuration = 8 * time.Second

	maxNotices       = 3
	noticeTickPeriod = 250 * time.Millisecond
)

// Notice is one transient message.
type Notice struct {
	ID        int
	Message   string
	Kind      NoticeKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the notice should be dropped at now.
func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.CreatedAt.Add(n.Duration))
}

// =============================================================================
// NOTICES
// =============================================================================

// Notices is a small newest-first stack of notices. It is a value type
// owned by one Bubble Tea model.
type Notices struct {
	clock  clock.Clock
	items  []Notice
	nextID int
}

// NewNotices returns an empty stack timed by c (nil means real time).
func NewNotices(c clock.Clock) Notices {
	if c == nil {
		c = clock.Real()
	}
	return Notices{clock: c, nextID: 1}
}

// Add pushes a notice and returns the tick command that expires it.
func (n *Notices) Add(kind NoticeKind, message string) tea.Cmd {
	d := InfoNoticeDuration
	if kind == NoticeError || kind == NoticeWarning {
		d = ErrorNoticeDuration
	}
	notice := Notice{
		ID:        n.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: n.clock.Now(),
		Duration:  d,
	}
	n.nextID++

	n.items = append([]Notice{notice}, n.items...)
	if len(n.items) > maxNotices {
		n.items = n.items[:maxNotices]
	}
	return NoticeTickCmd()
}

// Error is shorthand for Add(NoticeError, message).
func (n *Notices) Error(message string) tea.Cmd { return n.Add(NoticeError, message) }

// Info is shorthand for Add(NoticeInfo, message).
func (n *Notices) Info(message string) tea.Cmd { return n.Add(NoticeInfo, message) }

// Dismiss removes the newest notice.
func (n *Notices) Dismiss() {
	if len(n.items) > 0 {
		n.items = n.items[1:]
	}
}

// Clear removes every notice.
func (n *Notices) Clear() { n.items = nil }

// Items returns the live notices, newest first.
func (n Notices) Items() []Notice { return n.items }

// Len returns the number of live notices.
func (n Notices) Len() int { return len(n.items) }

// NoticeTickMsg drives expiry.
type NoticeTickMsg struct{ Time time.Time }

// NoticeTickCmd schedules the next expiry check.
func NoticeTickCmd() tea.Cmd {
	return tea.Tick(noticeTickPeriod, func(t time.Time) tea.Msg {
		return NoticeTickMsg{Time: t}
	})
}

// Update drops expired notices on NoticeTickMsg and keeps ticking while
// any remain.
func (n Notices) Update(msg tea.Msg) (Notices, tea.Cmd) {
	if _, ok := msg.(NoticeTickMsg); !ok {
		return n, nil
	}
	now := n.clock.Now()
	live := n.items[:0:0]
	for _, item := range n.items {
		if !item.Expired(now) {
			live = append(live, item)
		}
	}
	n.items = live
	if len(n.items) == 0 {
		return n, nil
	}
	return n, NoticeTickCmd()
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the stack, one bordered line per notice.
func (n Notices) View(width int) string {
	if len(n.items) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(n.items))
	for _, item := range n.items {
		rendered = append(rendered, renderNotice(item, width))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func renderNotice(n Notice, width int) string {
	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 20 {
		maxWidth = 20
	}

	var color lipgloss.AdaptiveColor
	var marker string
	switch n.Kind {
	case NoticeError:
		color, marker = styles.Error, styles.StatusIndicators.Error
	case NoticeWarning:
		color, marker = styles.Warning, styles.StatusIndicators.Warning
	case NoticeSuccess:
		color, marker = styles.Success, styles.StatusIndicators.Success
	default:
		color, marker = styles.Info, styles.StatusIndicators.Info
	}

	text := wrapWords(n.Message, maxWidth-len(marker)-5)
	content := lipgloss.NewStyle().Foreground(color).Bold(true).Render(marker) + " " +
		lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(text)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(content)
}

// wrapWords wraps text at word boundaries to maxWidth display columns.
func wrapWords(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= maxWidth {
			line += " " + word
			continue
		}
		lines = append(lines, line)
		line = word
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
