// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jeranaias/armario-tui/internal/clock"
	"github.com/jeranaias/armario-tui/internal/kvstore"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tokenWithExp builds an unsigned three-segment token carrying exp.
func tokenWithExp(exp time.Time) string {
	claims := fmt.Sprintf(`{"sub":"42","exp":%d}`, exp.Unix())
	return "eyJhbGciOiJIUzI1NiJ9." +
		base64.RawURLEncoding.EncodeToString([]byte(claims)) +
		".c2ln"
}

// recordingStore is a MemoryStore that logs every call and can be made
// to fail.
type recordingStore struct {
	*kvstore.MemoryStore

	mu      sync.Mutex
	ops     []string
	failOps map[string]bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: kvstore.NewMemoryStore(), failOps: map[string]bool{}}
}

func (r *recordingStore) record(op, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op+" "+key)
	if r.failOps[op] || r.failOps[op+" "+key] {
		return errors.New("injected failure")
	}
	return nil
}

func (r *recordingStore) failOn(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOps[op] = true
}

func (r *recordingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := r.record("get", key); err != nil {
		return "", false, err
	}
	return r.MemoryStore.Get(ctx, key)
}

func (r *recordingStore) Set(ctx context.Context, key, value string) error {
	if err := r.record("set", key); err != nil {
		return err
	}
	return r.MemoryStore.Set(ctx, key, value)
}

func (r *recordingStore) Remove(ctx context.Context, key string) error {
	if err := r.record("remove", key); err != nil {
		return err
	}
	return r.MemoryStore.Remove(ctx, key)
}

func (r *recordingStore) removed() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]bool{}
	for _, op := range r.ops {
		var name, key string
		fmt.Sscan(op, &name, &key)
		if name == "remove" {
			out[key] = true
		}
	}
	return out
}

func (r *recordingStore) value(key string) (string, bool) {
	v, ok, _ := r.MemoryStore.Get(context.Background(), key)
	return v, ok
}

func (r *recordingStore) put(key, value string) {
	_ = r.MemoryStore.Set(context.Background(), key, value)
}

// recordingNav counts navigations.
type recordingNav struct {
	mu     sync.Mutex
	routes []Route
}

func (n *recordingNav) Navigate(route Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recordingNav) count(route Route) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, r := range n.routes {
		if r == route {
			c++
		}
	}
	return c
}

type fixture struct {
	clock   *clock.FakeClock
	nav     *recordingNav
	durable *recordingStore
	local   *recordingStore
	tab     *recordingStore
}

func newFixture() *fixture {
	return &fixture{
		clock:   clock.Fake(testNow),
		nav:     &recordingNav{},
		durable: newRecordingStore(),
		local:   newRecordingStore(),
		tab:     newRecordingStore(),
	}
}

func (f *fixture) native() *Manager {
	logger := discardLogger()
	return NewManager(
		NativeStorage(kvstore.Guard("durable", f.durable, logger)),
		WithClock(f.clock), WithNavigator(f.nav), WithLogger(logger))
}

func (f *fixture) web() *Manager {
	logger := discardLogger()
	return NewManager(
		WebStorage(
			kvstore.Guard("durable", f.durable, logger),
			kvstore.Guard("web-persistent", f.local, logger),
			kvstore.Guard("web-session", f.tab, logger)),
		WithClock(f.clock), WithNavigator(f.nav), WithLogger(logger))
}

// panicStorage fails every call by panicking.
type panicStorage struct{}

func (panicStorage) Platform() kvstore.Platform { return kvstore.PlatformNative }
func (panicStorage) Restore(context.Context) Record { panic("disk on fire") }
func (panicStorage) Persist(context.Context, Record, bool) bool { panic("disk on fire") }
func (panicStorage) Clear(context.Context) bool { panic("disk on fire") }
