// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for armario.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Display the effective configuration
//   get <key>           Print one value
//   set <key> <value>   Set a value and save config.toml
//   reset               Reset config.toml to the defaults
//   keys                List settable keys
//   path                Show configuration file path
//
// Examples:
//   armario config set api.base_url https://armario.example.com/api
//   armario config set runtime.platform web
//   armario config set storage.encrypt false
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jeranaias/armario-tui/internal/config"
)

// HandleConfig handles the "config" command. It does not open the
// session stores.
func HandleConfig(args Args, out io.Writer) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args, out)
	case "get":
		if len(args.Raw) < 2 {
			return &UsageError{Message: "usage: armario config get <key>"}
		}
		return handleConfigGet(args.Raw[1], out)
	case "set":
		if len(args.Raw) < 3 {
			return &UsageError{Message: "usage: armario config set <key> <value>"}
		}
		return handleConfigSet(args.Raw[1], args.Raw[2], out)
	case "reset":
		return handleConfigReset(out)
	case "keys":
		for _, key := range config.Keys() {
			fmt.Fprintln(out, key)
		}
		return nil
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		return nil
	default:
		return &UsageError{Message: fmt.Sprintf("unknown config subcommand %q", args.Subcommand)}
	}
}

func handleConfigShow(args Args, out io.Writer) error {
	cfg, err := config.Load()
	if cfg == nil {
		return err
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: "+err.Error()))
	}

	if args.JSON {
		return NewJSONResponse("config", cfg).Encode(out)
	}

	path, _ := config.ConfigPathTOML()
	fmt.Fprintln(out, TitleStyle.Render("armario configuration"))
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "%-24s %v\n", key, value)
	}
	fmt.Fprintln(out, DimStyle.Render("\nFile: "+path))
	return nil
}

func handleConfigGet(key string, out io.Writer) error {
	cfg, err := config.Load()
	if cfg == nil {
		return err
	}
	value, err := cfg.Get(key)
	if err != nil {
		return &UsageError{Message: err.Error()}
	}
	fmt.Fprintln(out, value)
	return nil
}

// loadFileConfig reads config.toml without environment overrides so that
// saving does not persist them.
func loadFileConfig() (*config.Config, string, error) {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return nil, "", err
	}
	cfg := config.Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, path, nil
	}
	if err := config.LoadTOML(cfg, path); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func handleConfigSet(key, value string, out io.Writer) error {
	cfg, path, err := loadFileConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return &UsageError{Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "%s %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func handleConfigReset(out io.Writer) error {
	if err := config.Save(config.Default()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintln(out, SuccessStyle.Render("✓")+" Configuration reset to defaults")
	return nil
}
