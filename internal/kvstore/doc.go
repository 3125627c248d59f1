// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kvstore provides the string key-value backends that hold the
// persisted session.
//
// # Key Types
//
//   - Store: Backend contract (Get, Set, Remove, Clear) returning errors
//   - Guarded: Failure-swallowing wrapper; the only view session code uses
//   - SQLiteStore: Native durable store (pure Go SQLite)
//   - FileStore: JSON map on disk, used as native fallback and as the
//     web persistent store
//   - MemoryStore: Web session-scoped store, lives as long as the process
//
// # Usage
//
//	durable, err := kvstore.OpenSQLite(filepath.Join(dataDir, "session.db"))
//	g := kvstore.Guard("durable", durable, logger)
//	token, ok := g.GetItem(ctx, "authToken")
//
// # Failure Policy
//
// Backends report errors. Guarded catches every error and panic, logs
// it, and reports the value as absent or the write as not applied, so a
// storage outage leaves the client logged out instead of crashing it.
package kvstore
