// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the REST client for the armario backend.
//
// The client injects the session's bearer token, retries transient
// failures with exponential backoff, rate-limits outgoing calls and tags
// every call with an X-Request-ID. A 401 on an authenticated call invokes
// the unauthorized handler, which the app wires to session logout.
//
// Network errors are returned to the caller and never touch the session.
package api
