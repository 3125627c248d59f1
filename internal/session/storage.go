// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	"github.com/jeranaias/armario-tui/internal/kvstore"
)

// Storage is where sessions are persisted. One implementation is chosen
// at startup for the runtime platform; the Manager never branches on
// platform itself.
type Storage interface {
	// Platform reports the runtime this storage serves.
	Platform() kvstore.Platform

	// Restore reads the persisted record. Missing keys are empty.
	Restore(ctx context.Context) Record

	// Persist writes rec. Optional fields are written only when set.
	// remember picks the web store that receives the copy and is ignored
	// on native. Returns false if any write did not apply.
	Persist(ctx context.Context, rec Record, remember bool) bool

	// Clear removes every persisted key from every backend, each removal
	// attempted independently. Returns false if any removal did not apply.
	Clear(ctx context.Context) bool
}

// =============================================================================
// NATIVE
// =============================================================================

type nativeStorage struct {
	durable *kvstore.Guarded
}

// NativeStorage persists to the durable store only.
func NativeStorage(durable *kvstore.Guarded) Storage {
	return &nativeStorage{durable: durable}
}

func (n *nativeStorage) Platform() kvstore.Platform { return kvstore.PlatformNative }

func (n *nativeStorage) Restore(ctx context.Context) Record {
	return readRecord(ctx, n.durable)
}

func (n *nativeStorage) Persist(ctx context.Context, rec Record, _ bool) bool {
	return writeRecord(ctx, n.durable, rec)
}

func (n *nativeStorage) Clear(ctx context.Context) bool {
	return removeRecord(ctx, n.durable)
}

// =============================================================================
// WEB
// =============================================================================

type webStorage struct {
	durable       *kvstore.Guarded
	persistent    *kvstore.Guarded
	sessionScoped *kvstore.Guarded
}

// WebStorage persists to the durable store plus one of the two web
// stores: persistent when the user asked to be remembered, otherwise
// session-scoped.
func WebStorage(durable, persistent, sessionScoped *kvstore.Guarded) Storage {
	return &webStorage{
		durable:       durable,
		persistent:    persistent,
		sessionScoped: sessionScoped,
	}
}

func (w *webStorage) Platform() kvstore.Platform { return kvstore.PlatformWeb }

// Restore prefers the durable copy. When it has no token, the whole
// record comes from the web stores instead: each key is read from the
// session-scoped store and then the persistent store. Durable leftovers
// never mix into a web token.
func (w *webStorage) Restore(ctx context.Context) Record {
	durable := readValues(ctx, w.durable)
	if durable[KeyAuthToken] != "" {
		return toRecord(durable)
	}

	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		if v, ok := w.sessionScoped.GetItem(ctx, key); ok && v != "" {
			values[key] = v
			continue
		}
		if v, ok := w.persistent.GetItem(ctx, key); ok {
			values[key] = v
		}
	}
	return toRecord(values)
}

func (w *webStorage) Persist(ctx context.Context, rec Record, remember bool) bool {
	ok := writeRecord(ctx, w.durable, rec)
	web := w.sessionScoped
	if remember {
		web = w.persistent
	}
	return writeRecord(ctx, web, rec) && ok
}

func (w *webStorage) Clear(ctx context.Context) bool {
	ok := removeRecord(ctx, w.durable)
	ok = removeRecord(ctx, w.persistent) && ok
	ok = removeRecord(ctx, w.sessionScoped) && ok
	return ok
}

// =============================================================================
// HELPERS
// =============================================================================

func readValues(ctx context.Context, store *kvstore.Guarded) map[string]string {
	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		if v, ok := store.GetItem(ctx, key); ok {
			values[key] = v
		}
	}
	return values
}

func readRecord(ctx context.Context, store *kvstore.Guarded) Record {
	return toRecord(readValues(ctx, store))
}

func toRecord(values map[string]string) Record {
	return Record{
		Token:    values[KeyAuthToken],
		UserName: values[KeyUserName],
		UserID:   values[KeyUserID],
	}
}

func writeRecord(ctx context.Context, store *kvstore.Guarded, rec Record) bool {
	ok := store.SetItem(ctx, KeyAuthToken, rec.Token)
	if rec.UserName != "" {
		ok = store.SetItem(ctx, KeyUserName, rec.UserName) && ok
	}
	if rec.UserID != "" {
		ok = store.SetItem(ctx, KeyUserID, rec.UserID) && ok
	}
	return ok
}

func removeRecord(ctx context.Context, store *kvstore.Guarded) bool {
	ok := true
	for _, key := range Keys {
		ok = store.RemoveItem(ctx, key) && ok
	}
	return ok
}
