// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kvstore

import (
	"context"
	"fmt"
	"log/slog"
)

// Guarded wraps a Store so that no failure escapes it. Errors and panics
// are logged with event STORAGE_FAILURE and turned into "absent" for
// reads and false for writes.
type Guarded struct {
	name   string
	store  Store
	logger *slog.Logger
}

// Guard wraps store. name identifies the backend in logs
// ("durable", "web-persistent", "web-session").
func Guard(name string, store Store, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{name: name, store: store, logger: logger}
}

// Name returns the backend name given to Guard.
func (g *Guarded) Name() string { return g.name }

// GetItem returns the value for key, or ("", false) if it is absent or
// the backend failed.
func (g *Guarded) GetItem(ctx context.Context, key string) (value string, ok bool) {
	err := g.run("get", key, func() error {
		var err error
		value, ok, err = g.store.Get(ctx, key)
		return err
	})
	if err != nil {
		return "", false
	}
	return value, ok
}

// SetItem stores value under key and reports whether the write applied.
func (g *Guarded) SetItem(ctx context.Context, key, value string) bool {
	return g.run("set", key, func() error {
		return g.store.Set(ctx, key, value)
	}) == nil
}

// RemoveItem deletes key and reports whether the removal applied.
func (g *Guarded) RemoveItem(ctx context.Context, key string) bool {
	return g.run("remove", key, func() error {
		return g.store.Remove(ctx, key)
	}) == nil
}

// Clear deletes every key and reports whether it applied.
func (g *Guarded) Clear(ctx context.Context) bool {
	return g.run("clear", "", func() error {
		return g.store.Clear(ctx)
	}) == nil
}

func (g *Guarded) run(op, key string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			g.logger.Warn("STORAGE_FAILURE",
				"backend", g.name,
				"op", op,
				"key", key,
				"error", err)
		}
	}()
	if g.store == nil {
		return ErrUnavailable
	}
	return fn()
}
