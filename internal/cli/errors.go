// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error reporting and exit codes for CLI commands.
//
// Commands always return errors; Fail decides how they are displayed and
// which exit code the process ends with.
package cli

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/jeranaias/armario-tui/internal/api"
	"github.com/jeranaias/armario-tui/internal/config"
)

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates authentication or authorization failure
	ExitAuthError = 4
	// ExitNetworkError indicates network or connectivity error
	ExitNetworkError = 5
)

// ErrNotSignedIn is returned by commands that need a stored session.
var ErrNotSignedIn = errors.New("not signed in; run 'armario login'")

// UsageError represents invalid command usage.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	var validation config.ValidateErrors
	var apiErr *api.Error
	var netErr net.Error
	switch {
	case errors.As(err, &usage):
		return ExitUsageError
	case errors.As(err, &validation):
		return ExitConfigError
	case errors.Is(err, ErrNotSignedIn),
		errors.Is(err, api.ErrUnauthorized),
		errors.Is(err, api.ErrInvalidCredentials):
		return ExitAuthError
	case errors.Is(err, api.ErrNotConfigured):
		return ExitConfigError
	case errors.As(err, &apiErr), errors.As(err, &netErr), errors.Is(err, api.ErrRateLimited):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

// Fail prints "Error: ..." to w and returns the exit code for err.
func Fail(w io.Writer, err error) int {
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+err.Error())
	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(w, DimStyle.Render("Run 'armario help' for usage."))
	}
	return ExitCode(err)
}

// Finish reports the outcome of cmd and returns the exit code. With
// --json a failure is printed to out as an error envelope instead.
func Finish(out, errOut io.Writer, cmd Command, args Args, err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case args.JSON:
		if encErr := NewJSONErrorResponse(cmd.String(), err).Encode(out); encErr != nil {
			return Fail(errOut, err)
		}
		return ExitCode(err)
	default:
		return Fail(errOut, err)
	}
}
