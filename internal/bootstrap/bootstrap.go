// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bootstrap assembles the session stack from configuration: the
// platform stores, at-rest sealing, the session manager and the API
// client. The TUI and the one-shot CLI commands share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jeranaias/armario-tui/internal/api"
	"github.com/jeranaias/armario-tui/internal/clock"
	"github.com/jeranaias/armario-tui/internal/config"
	"github.com/jeranaias/armario-tui/internal/kvstore"
	"github.com/jeranaias/armario-tui/internal/security"
	"github.com/jeranaias/armario-tui/internal/session"
	"github.com/jeranaias/armario-tui/internal/util"
)

// File names inside the data directory.
const (
	SQLiteFile    = "session.db"
	FileStoreFile = "session.json"
	WebLocalFile  = "web-local.json"
	MasterKeyFile = "master.key"
)

// Options tunes Open. Zero values pick the production defaults.
type Options struct {
	Logger     *slog.Logger
	Navigator  session.Navigator
	Clock      clock.Clock
	HTTPClient *http.Client
}

// Env is an opened session stack.
type Env struct {
	Config  *config.Config
	Logger  *slog.Logger
	Session *session.Manager
	API     *api.Client

	platform  kvstore.Platform
	dataDir   string
	watchPath string
	closers   []func() error
}

// Open builds the stores for cfg and wires a session manager and API
// client over them. The session is not loaded; call Env.Session.Load.
func Open(cfg *config.Config, opts Options) (_ *Env, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	platform, err := kvstore.ParsePlatform(cfg.Runtime.Platform)
	if err != nil {
		return nil, err
	}
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, util.PrivateDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	env := &Env{
		Config:   cfg,
		Logger:   logger,
		platform: platform,
		dataDir:  dataDir,
	}
	defer func() {
		if err != nil {
			env.Close()
		}
	}()

	seal := func(s kvstore.Store) (kvstore.Store, error) { return s, nil }
	if cfg.Storage.Encrypt {
		key, err := security.LoadOrCreateKey(security.NewFileKeyStore(filepath.Join(dataDir, MasterKeyFile)))
		if err != nil {
			return nil, fmt.Errorf("failed to load master key: %w", err)
		}
		seal = func(s kvstore.Store) (kvstore.Store, error) { return security.NewSealer(s, key) }
	}

	var webPersistent, native kvstore.Store
	if platform == kvstore.PlatformWeb {
		path := filepath.Join(dataDir, WebLocalFile)
		if webPersistent, err = seal(kvstore.NewFileStore(path)); err != nil {
			return nil, err
		}
		env.watchPath = path
	} else {
		raw, path, err := env.openNative(cfg.Storage.Backend)
		if err != nil {
			return nil, err
		}
		if native, err = seal(raw); err != nil {
			return nil, err
		}
		env.watchPath = path
	}

	durable := kvstore.Guard("durable", kvstore.Select(platform, webPersistent, native), logger)

	var storage session.Storage
	if platform == kvstore.PlatformWeb {
		storage = session.WebStorage(
			durable,
			kvstore.Guard("web-persistent", webPersistent, logger),
			kvstore.Guard("web-session", kvstore.NewMemoryStore(), logger),
		)
	} else {
		storage = session.NativeStorage(durable)
	}

	managerOpts := []session.Option{session.WithLogger(logger)}
	if opts.Navigator != nil {
		managerOpts = append(managerOpts, session.WithNavigator(opts.Navigator))
	}
	if opts.Clock != nil {
		managerOpts = append(managerOpts, session.WithClock(opts.Clock))
	}
	mgr := session.NewManager(storage, managerOpts...)
	env.Session = mgr

	apiOpts := []api.Option{}
	if opts.HTTPClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(opts.HTTPClient))
	}
	apiOpts = append(apiOpts,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithMaxRetries(cfg.API.MaxRetries),
		api.WithRateLimit(cfg.API.RequestsPerSec),
		api.WithLogger(logger),
		api.WithTokenSource(func() string { return mgr.Session().Token }),
		api.WithUnauthorizedHandler(func() { mgr.Logout(context.Background()) }),
	)
	env.API = api.New(cfg.API.BaseURL, apiOpts...)

	logger.Debug("session stack ready",
		"platform", platform.String(),
		"backend", cfg.Storage.Backend,
		"encrypt", cfg.Storage.Encrypt,
		"data_dir", dataDir)
	return env, nil
}

func (e *Env) openNative(backend string) (kvstore.Store, string, error) {
	switch backend {
	case "", "sqlite":
		path := filepath.Join(e.dataDir, SQLiteFile)
		store, err := kvstore.OpenSQLite(path)
		if err != nil {
			return nil, "", err
		}
		e.closers = append(e.closers, store.Close)
		return store, path, nil
	case "file":
		path := filepath.Join(e.dataDir, FileStoreFile)
		return kvstore.NewFileStore(path), path, nil
	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Platform returns the platform the stores were built for.
func (e *Env) Platform() kvstore.Platform { return e.platform }

// DataDir returns the directory holding the stores.
func (e *Env) DataDir() string { return e.dataDir }

// StorePath returns the file backing the durable store.
func (e *Env) StorePath() string { return e.watchPath }

// Watch reloads the session whenever another process changes the
// durable store on disk. The watcher stops on Close.
func (e *Env) Watch() error {
	w, err := kvstore.Watch(e.watchPath, kvstore.DefaultWatchDebounce, func() {
		e.Session.Reload(context.Background())
	}, e.Logger)
	if err != nil {
		return err
	}
	e.closers = append(e.closers, w.Close)
	return nil
}

// Close releases stores and watchers in reverse order of opening.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && !errors.Is(err, kvstore.ErrClosed) {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
