// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an identifier the backend may send as a JSON string or number.
type ID string

// UnmarshalJSON accepts "42", 42 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}
		if i, err := n.Int64(); err == nil {
			*id = ID(strconv.FormatInt(i, 10))
		} else {
			*id = ID(n.String())
		}
	}
	return nil
}

// User is the signed-in user as returned by the backend.
type User struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// LoginResult is the body of a successful POST /auth/login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Garment ("prenda") is one item of the user's wardrobe.
type Garment struct {
	ID       ID     `json:"id"`
	Name     string `json:"nombre"`
	Category string `json:"tipo"`
	Color    string `json:"color"`
	Season   string `json:"temporada"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type apiErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
