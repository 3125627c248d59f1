// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across armario packages.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - ReadFileIfExists: Read that treats a missing file as absent
//
// Display:
//   - TruncateWidth, PadWidth: Column-aware truncation for list views
//   - MaskSecret: Shortened rendering of bearer tokens in status output
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0600)
//	cell := util.PadWidth(garment.Name, 24)
package util
