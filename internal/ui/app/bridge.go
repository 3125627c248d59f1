// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/armario-tui/internal/session"
)

// SessionEventMsg carries a session manager event into the program.
type SessionEventMsg struct {
	Event session.Event
}

// NavigateMsg is a navigation request issued by the session manager.
type NavigateMsg struct {
	Route session.Route
}

// bridgeBuffer absorbs bursts (a logout publishes and navigates) so the
// manager rarely waits on the event loop.
const bridgeBuffer = 32

// Bridge feeds session events and navigation requests into a Bubble Tea
// program. It implements session.Navigator. Messages are delivered in
// order through Listen; senders block only when the buffer is full, and
// never after Close.
type Bridge struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

// NewBridge returns an open Bridge.
func NewBridge() *Bridge {
	return &Bridge{
		ch:   make(chan tea.Msg, bridgeBuffer),
		done: make(chan struct{}),
	}
}

// Navigate queues a NavigateMsg.
func (b *Bridge) Navigate(route session.Route) {
	b.send(NavigateMsg{Route: route})
}

// Watch subscribes to m and queues every event. The returned function
// unsubscribes.
func (b *Bridge) Watch(m *session.Manager) (cancel func()) {
	return m.Subscribe(func(ev session.Event) {
		b.send(SessionEventMsg{Event: ev})
	})
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

// Listen waits for the next queued message. The model must call it
// again after each message it receives from it.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// Close stops delivery and releases blocked senders. Safe to call more
// than once.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}
