// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colors and Lip Gloss styles of the armario TUI.

Colors are Lip Gloss AdaptiveColor values, so they follow the terminal's
light or dark background. The [ui] theme setting can pin the background
("dark", "light") or drop colors entirely ("mono"); ApplyMode installs that
choice process-wide before the program starts.

Status messages always carry an ASCII marker ([OK], [X], [!], [i]) next to
the color so they stay readable without it.
*/
package styles
