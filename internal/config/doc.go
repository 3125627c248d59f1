// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves armario settings.
//
// Supports both TOML and JSON configuration formats, with built-in
// defaults, environment variable overrides, and validation.
//
// # Configuration Precedence
//
//   - Environment variables (ARMARIO_*)
//   - ~/.armario/config.toml
//   - ~/.armario/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout()))
package config
