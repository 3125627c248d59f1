// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// Persisted key names. Changing them orphans every stored session.
const (
	KeyAuthToken = "authToken"
	KeyUserName  = "userName"
	KeyUserID    = "userId"
)

// Keys lists every persisted key in write order.
var Keys = []string{KeyAuthToken, KeyUserName, KeyUserID}

// DefaultDisplayName is shown when the session carries no user name.
const DefaultDisplayName = "Usuario"

// Session is the in-memory session. An empty Token means signed out.
type Session struct {
	Token    string
	UserName string
	UserID   string
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool { return s.Token != "" }

// DisplayName returns UserName, or DefaultDisplayName when it is empty.
func (s Session) DisplayName() string {
	if s.UserName == "" {
		return DefaultDisplayName
	}
	return s.UserName
}

// Record is the persisted projection of a Session.
type Record = Session

// Snapshot is a consistent read of the manager's state.
type Snapshot struct {
	Session       Session
	Loading       bool
	Authenticated bool
}

// State is the session lifecycle state.
type State int

const (
	// StateLoading holds until the first Load completes.
	StateLoading State = iota
	// StateAuthenticated means a token is present.
	StateAuthenticated
	// StateUnauthenticated means no token is present.
	StateUnauthenticated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}
