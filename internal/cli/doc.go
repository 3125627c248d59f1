// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the one-shot commands of
// the armario client.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global and command-specific flags
//   - JSONResponse: Envelope for --json output
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	if err != nil {
//	    os.Exit(cli.Fail(os.Stderr, err))
//	}
//	switch cmd {
//	case cli.CmdStatus:
//	    err = cli.HandleStatus(ctx, env, args, os.Stdout)
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - (none): Start the TUI
//   - login: Sign in with email and password, or store an existing token
//   - logout: Clear the stored session
//   - status: Show the stored session
//   - prendas: List garments for the signed-in user
//   - config: Show and edit configuration
//
// status and prendas support --json.
package cli
