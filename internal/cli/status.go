// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for armario.
//
// Command: status
// Aliases: s, whoami
//
// Restores the stored session the same way the TUI does at startup, so an
// expired token is cleared here too.
//
// Flags:
//   --json              Output in JSON format
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jeranaias/armario-tui/internal/bootstrap"
	"github.com/jeranaias/armario-tui/internal/token"
	"github.com/jeranaias/armario-tui/internal/util"
)

// StatusReport is the --json payload of the status command.
type StatusReport struct {
	State         string     `json:"state"`
	Authenticated bool       `json:"authenticated"`
	UserName      string     `json:"user_name,omitempty"`
	UserID        string     `json:"user_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Platform      string     `json:"platform"`
	Store         string     `json:"store"`
	API           string     `json:"api"`
}

// BuildStatus loads the session and summarizes it.
func BuildStatus(ctx context.Context, env *bootstrap.Env) StatusReport {
	env.Session.Load(ctx)
	sess := env.Session.Session()

	report := StatusReport{
		State:         env.Session.State().String(),
		Authenticated: env.Session.IsAuthenticated(),
		UserName:      sess.UserName,
		UserID:        sess.UserID,
		Platform:      env.Session.Platform(),
		Store:         env.StorePath(),
		API:           env.API.BaseURL(),
	}
	if exp, err := token.Expiry(sess.Token); err == nil {
		report.ExpiresAt = &exp
	}
	return report
}

// HandleStatus handles the "status" command.
func HandleStatus(ctx context.Context, env *bootstrap.Env, args Args, out io.Writer) error {
	report := BuildStatus(ctx, env)
	if args.JSON {
		return NewJSONResponse("status", report).Encode(out)
	}

	fmt.Fprintln(out, TitleStyle.Render("armario status"))
	if report.Authenticated {
		fmt.Fprintln(out, field("Session", SuccessStyle.Render("signed in")))
		fmt.Fprintln(out, field("User", env.Session.DisplayName()))
		if report.UserID != "" {
			fmt.Fprintln(out, field("User ID", report.UserID))
		}
		fmt.Fprintln(out, field("Token", util.MaskSecret(env.Session.Session().Token)))
		if report.ExpiresAt != nil {
			fmt.Fprintln(out, field("Expires", formatExpiry(*report.ExpiresAt, time.Now())))
		} else {
			fmt.Fprintln(out, field("Expires", DimStyle.Render("unknown")))
		}
	} else {
		fmt.Fprintln(out, field("Session", WarningStyle.Render("signed out")))
	}
	fmt.Fprintln(out, field("Platform", report.Platform))
	fmt.Fprintln(out, field("Store", report.Store))
	fmt.Fprintln(out, field("API", report.API))
	return nil
}
