// armario - terminal client for your wardrobe.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/armario-tui/internal/bootstrap"
	"github.com/jeranaias/armario-tui/internal/cli"
	"github.com/jeranaias/armario-tui/internal/config"
	"github.com/jeranaias/armario-tui/internal/logging"
	"github.com/jeranaias/armario-tui/internal/ui/app"
	"github.com/jeranaias/armario-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches one invocation and returns the process exit code.
func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		return cli.Fail(os.Stderr, err)
	}
	if args.Help || cmd == cli.CmdHelp {
		cli.ShowHelp(os.Stdout)
		return cli.ExitSuccess
	}

	switch cmd {
	case cli.CmdVersion:
		return cli.Finish(os.Stdout, os.Stderr, cmd, args, cli.HandleVersion(os.Stdout, args))
	case cli.CmdConfig:
		return cli.Finish(os.Stdout, os.Stderr, cmd, args, cli.HandleConfig(args, os.Stdout))
	}

	cfg, err := config.Load()
	if cfg == nil {
		return cli.Finish(os.Stdout, os.Stderr, cmd, args, err)
	}

	logger, closeLog, logErr := openLogger(cfg, args.Verbose && cmd != cli.CmdTUI)
	if logErr != nil {
		return cli.Fail(os.Stderr, logErr)
	}
	defer closeLog()
	slog.SetDefault(logger)
	if err != nil {
		logger.Warn("config file ignored", "error", err)
	}
	logger.Debug("configuration", "command", cmd.String(), "config", cfg.String())

	mode, _ := styles.ParseMode(cfg.UI.Theme)
	styles.ApplyMode(mode)

	if cmd == cli.CmdTUI {
		return cli.Finish(os.Stdout, os.Stderr, cmd, args, runTUI(cfg, logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := bootstrap.Open(cfg, bootstrap.Options{Logger: logger})
	if err != nil {
		return cli.Finish(os.Stdout, os.Stderr, cmd, args, err)
	}
	defer closeEnv(env, logger)

	switch cmd {
	case cli.CmdLogin:
		err = cli.HandleLogin(ctx, env, args, os.Stdout)
	case cli.CmdLogout:
		err = cli.HandleLogout(ctx, env, os.Stdout)
	case cli.CmdStatus:
		err = cli.HandleStatus(ctx, env, args, os.Stdout)
	case cli.CmdPrendas:
		err = cli.HandlePrendas(ctx, env, args, os.Stdout)
	default:
		err = fmt.Errorf("unhandled command %s", cmd)
	}
	return cli.Finish(os.Stdout, os.Stderr, cmd, args, err)
}

func openLogger(cfg *config.Config, verbose bool) (*slog.Logger, func() error, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.Open(logging.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Path:   path,
		Stderr: verbose,
	})
}

func closeEnv(env *bootstrap.Env, logger *slog.Logger) {
	if err := env.Close(); err != nil {
		logger.Warn("closing session stores", "error", err)
	}
}

// runTUI starts the full-screen interface. Session changes made by other
// armario processes are picked up through the store watcher.
func runTUI(cfg *config.Config, logger *slog.Logger) error {
	if !cli.IsTTY() || !cli.IsStdoutTTY() {
		return &cli.TTYRequiredError{Operation: "start the interface"}
	}

	bridge := app.NewBridge()
	defer bridge.Close()

	env, err := bootstrap.Open(cfg, bootstrap.Options{Logger: logger, Navigator: bridge})
	if err != nil {
		return err
	}
	defer closeEnv(env, logger)

	unsubscribe := bridge.Watch(env.Session)
	defer unsubscribe()

	if err := env.Watch(); err != nil {
		logger.Warn("session store watcher disabled", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := app.New(ctx, env.Session, env.API, bridge, app.Options{Logger: logger})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
