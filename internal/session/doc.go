// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the signed-in user's session.
//
// A single Manager is built at startup and passed to everything that needs
// to read or change the session. It restores the session from storage,
// checks the token's expiry, persists on login, clears on logout, and logs
// the user out automatically when the token expires.
//
// # Key Types
//
//   - Manager: the session state machine (Loading, Authenticated, Unauthenticated)
//   - Storage: backend strategy chosen once per platform (NativeStorage, WebStorage)
//   - Navigator: receives RouteHome after login and RouteLogin after logout
//   - Event: change and expiry notifications delivered to subscribers
//
// # Usage
//
//	durable := kvstore.Guard("durable", store, logger)
//	mgr := session.NewManager(session.NativeStorage(durable),
//	    session.WithNavigator(nav),
//	    session.WithLogger(logger))
//	mgr.Load(ctx)
//
//	mgr.Login(ctx, token, session.LoginOptions{UserName: "Ana", UserID: "42"})
//	mgr.Logout(ctx)
package session
