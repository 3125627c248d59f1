// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner()

	if s.style != SpinnerLine {
		t.Errorf("NewSpinner() style = %v, want %v", s.style, SpinnerLine)
	}
	if s.message != "Loading" {
		t.Errorf("NewSpinner() message = %q, want %q", s.message, "Loading")
	}
	if s.IsActive() {
		t.Error("NewSpinner() should not be active initially")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}
}

func TestSpinner_StartStop(t *testing.T) {
	s := NewSpinner()
	s.SetMessage("Restoring session")

	if cmd := s.Start(); cmd == nil {
		t.Fatal("Start() should return a tick command")
	}
	if !s.IsActive() {
		t.Fatal("spinner should be active after Start")
	}
	if !strings.Contains(s.View(), "Restoring session") {
		t.Errorf("View() = %q, missing message", s.View())
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
	if _, cmd := s.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("stopped spinner should ignore ticks")
	}
}

func TestSpinner_SetStyle(t *testing.T) {
	s := NewSpinner()
	s.SetStyle(SpinnerDots)
	if s.style != SpinnerDots {
		t.Errorf("style = %v, want %v", s.style, SpinnerDots)
	}
	if len(s.spinner.Spinner.Frames) != 6 {
		t.Errorf("dots spinner has %d frames, want 6", len(s.spinner.Spinner.Frames))
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(1234 * time.Millisecond); got != "1.2s" {
		t.Errorf("formatElapsed = %q, want 1.2s", got)
	}
}
