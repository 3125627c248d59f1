// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the armario TUI.

Components are built on Bubble Tea, Bubbles and Lip Gloss and take their
colors from the styles package.

# Display Components

Header (header.go) - Title bar with the brand, the signed-in user and the
platform badge.

StatusBar (statusbar.go) - Bottom bar listing the key bindings of the
active screen.

# Feedback

Spinner (spinner.go) - Animated waiting indicator with an optional
elapsed timer.

Notices (notice.go) - Transient, auto-dismissing notices for recoverable
problems such as a failed network call.
*/
package components
