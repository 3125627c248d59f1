// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login and logout commands.
//
// Examples:
//   armario login --email ana@example.com     Prompt for the password
//   armario login --token eyJ... --name Ana   Store an existing token
//   armario logout                            Clear the stored session
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/armario-tui/internal/bootstrap"
	"github.com/jeranaias/armario-tui/internal/session"
	"github.com/jeranaias/armario-tui/internal/token"
)

// HandleLogin signs in and stores the session.
func HandleLogin(ctx context.Context, env *bootstrap.Env, args Args, out io.Writer) error {
	env.Session.Load(ctx)

	tok, opts, err := credentials(ctx, env, args)
	if err != nil {
		return err
	}
	env.Session.Login(ctx, tok, opts)

	fmt.Fprintln(out, SuccessStyle.Render("✓")+" Signed in as "+env.Session.DisplayName())
	now := time.Now()
	if token.Expired(tok, now) {
		fmt.Fprintln(out, WarningStyle.Render("  This token has already expired; the next start will sign you out"))
	} else if exp, err := token.Expiry(tok); err == nil {
		fmt.Fprintln(out, DimStyle.Render("  Session expires "+formatExpiry(exp, now)))
	}
	return nil
}

// credentials resolves the token and profile either from --token or by
// calling the backend with email and password.
func credentials(ctx context.Context, env *bootstrap.Env, args Args) (string, session.LoginOptions, error) {
	opts := session.LoginOptions{RememberMe: args.Remember}

	if tok := strings.TrimSpace(args.Token); tok != "" {
		opts.UserName = args.Name
		opts.UserID = args.UserID
		return tok, opts, nil
	}

	email := strings.TrimSpace(args.Email)
	if email == "" {
		if !IsTTY() {
			return "", opts, &UsageError{Message: "login requires --email or --token"}
		}
		var err error
		if email, err = promptLine(os.Stdin, os.Stderr, "Email: "); err != nil || email == "" {
			return "", opts, &UsageError{Message: "login requires --email or --token"}
		}
	}

	password := args.Password
	if password == "" {
		var err error
		if password, err = PasswordReader("Password: "); err != nil {
			return "", opts, err
		}
	}
	if password == "" {
		return "", opts, &UsageError{Message: "password must not be empty"}
	}

	result, err := env.API.Login(ctx, email, password)
	if err != nil {
		return "", opts, fmt.Errorf("login failed: %w", err)
	}
	opts.UserName = result.User.Name
	opts.UserID = string(result.User.ID)
	return result.Token, opts, nil
}

// HandleLogout clears the stored session.
func HandleLogout(ctx context.Context, env *bootstrap.Env, out io.Writer) error {
	env.Session.Load(ctx)
	wasSignedIn := env.Session.IsAuthenticated()
	name := env.Session.DisplayName()

	env.Session.Logout(ctx)

	if wasSignedIn {
		fmt.Fprintln(out, SuccessStyle.Render("✓")+" Signed out "+name)
	} else {
		fmt.Fprintln(out, DimStyle.Render("No stored session; nothing to clear"))
	}
	return nil
}

// formatExpiry renders exp relative to now.
func formatExpiry(exp, now time.Time) string {
	local := exp.Local().Format("2006-01-02 15:04")
	if !exp.After(now) {
		return local + " (expired)"
	}
	return fmt.Sprintf("%s (in %s)", local, formatDuration(exp.Sub(now)))
}

// formatDuration formats a time.Duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
