// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jeranaias/armario-tui/internal/clock"
	"github.com/jeranaias/armario-tui/internal/token"
	"github.com/jeranaias/armario-tui/internal/util"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for expiry checks and timers.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithNavigator sets where login and logout navigate to.
func WithNavigator(n Navigator) Option {
	return func(m *Manager) { m.nav = n }
}

// WithLogger sets the logger for session events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// LoginOptions carries the optional fields of a login.
type LoginOptions struct {
	UserName   string
	UserID     string
	RememberMe bool
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager is the single owner of session state. All methods are safe for
// concurrent use. Overlapping Login and Logout calls are not serialized:
// each fully overwrites the state, so the last to finish wins.
type Manager struct {
	storage Storage
	clock   clock.Clock
	nav     Navigator
	logger  *slog.Logger
	subs    subscribers

	mu      sync.Mutex
	session Session
	loading bool

	// expiry is the pending auto-logout. gen is bumped whenever it is
	// replaced or cancelled so a callback that already started can tell
	// it is stale.
	expiry *clock.Timer
	gen    uint64
}

// NewManager returns a Manager in StateLoading. Call Load once to leave it.
func NewManager(storage Storage, opts ...Option) *Manager {
	m := &Manager{
		storage: storage,
		clock:   clock.Real(),
		nav:     noopNavigator{},
		logger:  slog.Default(),
		loading: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ===== READS =====

// Snapshot returns the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Session:       m.session,
		Loading:       m.loading,
		Authenticated: m.session.Authenticated(),
	}
}

// IsAuthenticated reports whether a token is held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Token != ""
}

// Loading reports whether the first Load is still pending.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.loading:
		return StateLoading
	case m.session.Token != "":
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// Session returns the current session.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// DisplayName returns the user name or DefaultDisplayName.
func (m *Manager) DisplayName() string {
	return m.Session().DisplayName()
}

// Platform reports the platform of the configured storage.
func (m *Manager) Platform() string {
	return m.storage.Platform().String()
}

// Subscribe registers fn for every Event. The returned function removes
// it and may be called more than once.
func (m *Manager) Subscribe(fn func(Event)) (cancel func()) {
	return m.subs.add(fn)
}

// ===== LOAD =====

// Load restores the session from storage. An expired token is cleared
// from every backend. Load always leaves StateLoading, even if restoring
// fails.
func (m *Manager) Load(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("SESSION_LOAD", "outcome", "failed", "error", fmt.Sprint(r))
			m.commit(Session{}, time.Time{})
		}
	}()

	sess, exp := m.restore(ctx)
	m.commit(sess, exp)
	m.logger.Info("SESSION_LOAD",
		"platform", m.storage.Platform().String(),
		"authenticated", sess.Authenticated(),
		"user_id", sess.UserID)
}

// Reload re-reads storage without entering StateLoading. It is used when
// another process changed the stored session. Subscribers are notified
// only if the session differs from the current one.
func (m *Manager) Reload(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("SESSION_LOAD", "outcome", "reload_failed", "error", fmt.Sprint(r))
		}
	}()

	sess, exp := m.restore(ctx)

	m.mu.Lock()
	unchanged := sess == m.session && !m.loading
	m.mu.Unlock()
	if unchanged {
		return
	}
	m.commit(sess, exp)
	m.logger.Info("SESSION_LOAD",
		"outcome", "reloaded",
		"authenticated", sess.Authenticated())
}

// restore reads the stored record and drops it if its token has expired.
// The returned time is the token's expiry, or zero when unknown.
func (m *Manager) restore(ctx context.Context) (Session, time.Time) {
	rec := m.storage.Restore(ctx)
	if rec.Token == "" {
		return Session{}, time.Time{}
	}

	exp, err := token.Expiry(rec.Token)
	if err != nil {
		if errors.Is(err, token.ErrMalformed) {
			m.logger.Warn("TOKEN_DECODE_FAILED", "error", err)
		}
		return rec, time.Time{}
	}

	if token.Past(exp, m.clock.Now()) {
		m.logger.Info("SESSION_EXPIRED",
			"expired_at", exp.UTC().Format(time.RFC3339),
			"user_id", rec.UserID)
		m.storage.Clear(ctx)
		return Session{}, time.Time{}
	}
	return rec, exp
}

// commit replaces the state, leaves StateLoading, reschedules the expiry
// timer and notifies subscribers.
func (m *Manager) commit(sess Session, exp time.Time) {
	m.mu.Lock()
	m.session = sess
	m.loading = false
	gen := m.cancelExpiryLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if sess.Authenticated() && !exp.IsZero() {
		m.scheduleExpiry(gen, exp)
	}
	m.subs.publish(Event{Kind: EventChanged, Snapshot: snap})
}

// ===== LOGIN / LOGOUT =====

// Login stores the session and navigates to RouteHome. A storage failure
// is logged and does not stop the login.
func (m *Manager) Login(ctx context.Context, tok string, opts LoginOptions) {
	rec := Record{Token: tok, UserName: opts.UserName, UserID: opts.UserID}

	persisted := m.storage.Persist(ctx, rec, opts.RememberMe)
	if !persisted {
		m.logger.Warn("STORAGE_FAILURE", "op", "login", "detail", "session not fully persisted")
	}

	exp, err := token.Expiry(tok)
	if err != nil {
		if errors.Is(err, token.ErrMalformed) {
			m.logger.Warn("TOKEN_DECODE_FAILED", "error", err)
		}
		exp = time.Time{}
	} else if !exp.After(m.clock.Now()) {
		exp = time.Time{}
	}

	m.commit(rec, exp)

	attrs := []any{
		"token", util.MaskSecret(tok),
		"user_id", opts.UserID,
		"remember", opts.RememberMe,
		"persisted", persisted,
	}
	if !exp.IsZero() {
		attrs = append(attrs, "expires_at", exp.UTC().Format(time.RFC3339))
	}
	m.logger.Info("SESSION_LOGIN", attrs...)

	m.nav.Navigate(RouteHome)
}

// Logout cancels the expiry timer, removes the stored session from every
// backend, resets state and navigates to RouteLogin. Calling it again is
// harmless.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.cancelExpiryLocked()
	m.mu.Unlock()

	cleared := m.storage.Clear(ctx)

	m.mu.Lock()
	m.cancelExpiryLocked()
	m.session = Session{}
	m.loading = false
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Info("SESSION_LOGOUT", "cleared", cleared)
	m.subs.publish(Event{Kind: EventChanged, Snapshot: snap})
	m.nav.Navigate(RouteLogin)
}

// ===== EXPIRY TIMER =====

// cancelExpiryLocked stops the pending timer and returns the new
// generation. Callers hold m.mu.
func (m *Manager) cancelExpiryLocked() uint64 {
	m.expiry.Stop()
	m.expiry = nil
	m.gen++
	return m.gen
}

func (m *Manager) scheduleExpiry(gen uint64, exp time.Time) {
	delay := exp.Sub(m.clock.Now())
	if delay <= 0 {
		return
	}
	t := m.clock.AfterFunc(delay, func() { m.expire(gen) })

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		t.Stop()
		return
	}
	m.expiry = t
}

// ExpiryPending reports whether an auto-logout is scheduled.
func (m *Manager) ExpiryPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiry != nil
}

func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return
	}
	m.expiry = nil
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Info("TokenExpired", "user_id", snap.Session.UserID)
	m.subs.publish(Event{Kind: EventTokenExpired, Snapshot: snap})
	m.Logout(context.Background())
}
