// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prendas_cmd.go - List the signed-in user's garments.
//
// Command: prendas
// Aliases: ls
//
// Flags:
//   --json              Output in JSON format
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/armario-tui/internal/api"
	"github.com/jeranaias/armario-tui/internal/bootstrap"
	"github.com/jeranaias/armario-tui/internal/util"
)

// Column widths for the garment table.
var garmentColumns = []struct {
	title string
	width int
}{
	{"ID", 6},
	{"Nombre", 24},
	{"Tipo", 14},
	{"Color", 12},
	{"Temporada", 12},
}

// HandlePrendas lists garments. A stored session is required.
func HandlePrendas(ctx context.Context, env *bootstrap.Env, args Args, out io.Writer) error {
	env.Session.Load(ctx)
	if !env.Session.IsAuthenticated() {
		return ErrNotSignedIn
	}

	garments, err := env.API.ListGarments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list garments: %w", err)
	}

	if args.JSON {
		if garments == nil {
			garments = []api.Garment{}
		}
		return NewJSONResponse("prendas", garments).Encode(out)
	}

	if len(garments) == 0 {
		fmt.Fprintln(out, DimStyle.Render("No garments yet."))
		return nil
	}

	fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("Armario de %s", env.Session.DisplayName())))
	fmt.Fprintln(out, DimStyle.Render(garmentRow(columnTitles()...)))
	for _, g := range garments {
		fmt.Fprintln(out, garmentRow(string(g.ID), g.Name, g.Category, g.Color, g.Season))
	}
	fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("%d garment(s)", len(garments))))
	return nil
}

func columnTitles() []string {
	titles := make([]string, len(garmentColumns))
	for i, c := range garmentColumns {
		titles[i] = c.title
	}
	return titles
}

// garmentRow pads each cell to its display width so accented and wide
// names stay aligned.
func garmentRow(cells ...string) string {
	var b strings.Builder
	for i, c := range garmentColumns {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		if value == "" {
			value = "-"
		}
		b.WriteString(util.PadWidth(value, c.width))
		if i < len(garmentColumns)-1 {
			b.WriteString("  ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}
