// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")

	// ErrUnavailable is returned when a backend cannot be reached at all.
	ErrUnavailable = errors.New("store unavailable")
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a string key-value backend.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Clear deletes every key.
	Clear(ctx context.Context) error
}

// =============================================================================
// PLATFORM
// =============================================================================

// Platform is the runtime the client is executing in. It decides which
// backends exist.
type Platform int

const (
	// PlatformNative is a regular terminal session.
	PlatformNative Platform = iota
	// PlatformWeb is a browser-hosted terminal. It adds a persistent and a
	// tab-scoped store next to the durable one.
	PlatformWeb
)

// String returns the config spelling of the platform.
func (p Platform) String() string {
	switch p {
	case PlatformNative:
		return "native"
	case PlatformWeb:
		return "web"
	default:
		return "unknown"
	}
}

// ParsePlatform parses "native" or "web" (case-insensitive).
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return PlatformNative, nil
	case "web":
		return PlatformWeb, nil
	default:
		return PlatformNative, fmt.Errorf("unknown platform %q", s)
	}
}

// Select picks the store used as the durable backend. On the web
// platform a browser-style persistent store is preferred when one is
// available; otherwise the native durable store is used.
func Select(p Platform, webPersistent, native Store) Store {
	if p == PlatformWeb && webPersistent != nil {
		return webPersistent
	}
	return native
}
