// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output envelope for --json.
package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope every --json command prints, on success
// and on failure alike.
type JSONResponse struct {
	Command string `json:"command"`
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`

	// Error and Code are set only on failure. Code matches the process
	// exit code.
	Error string `json:"error,omitempty"`
	Code  int    `json:"code,omitempty"`

	// Timestamp is RFC 3339, UTC.
	Timestamp string `json:"timestamp"`
}

func timestamp() string { return time.Now().UTC().Format(time.RFC3339) }

// NewJSONResponse wraps data for a successful command.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{Command: command, OK: true, Data: data, Timestamp: timestamp()}
}

// NewJSONErrorResponse wraps err for a failed command.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	return &JSONResponse{
		Command:   command,
		Error:     err.Error(),
		Code:      ExitCode(err),
		Timestamp: timestamp(),
	}
}

// Encode writes the response as indented JSON.
func (r *JSONResponse) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
