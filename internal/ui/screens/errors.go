// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jeranaias/armario-tui/internal/api"
)

// DescribeError turns an API failure into a short notice text.
func DescribeError(err error) string {
	var apiErr *api.Error
	var netErr net.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrUnauthorized):
		return "The server rejected your session. Please sign in again."
	case errors.Is(err, api.ErrInvalidCredentials):
		return "Wrong email or password"
	case errors.Is(err, api.ErrNotConfigured):
		return "No server configured. Set api.base_url with 'armario config set'."
	case errors.Is(err, api.ErrRateLimited):
		return "Too many requests. Try again in a moment."
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to answer"
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return fmt.Sprintf("Server error: %s", apiErr.Message)
		}
		return fmt.Sprintf("Server error (HTTP %d)", apiErr.Status)
	case errors.As(err, &netErr):
		return "Could not reach the server. Check your connection."
	default:
		return err.Error()
	}
}
