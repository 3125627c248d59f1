// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package security seals stored session values at rest.
package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jeranaias/armario-tui/internal/util"
)

// MasterKeySize is the length of the sealing key in bytes.
const MasterKeySize = 32

// ErrInsecurePermissions is returned when the key file or its directory
// is readable by group or others.
var ErrInsecurePermissions = errors.New("insecure key file permissions")

// =============================================================================
// KEYSTORE INTERFACE
// =============================================================================

// KeyStore holds the master key used to seal stored values.
type KeyStore interface {
	// Store saves the key, replacing any existing one.
	Store(key []byte) error
	// Retrieve returns the stored key. Returns an error wrapping
	// fs.ErrNotExist when no key has been stored.
	Retrieve() ([]byte, error)
	// Delete removes the key. Deleting a missing key is not an error.
	Delete() error
}

// =============================================================================
// FILE KEYSTORE
// =============================================================================

// FileKeyStore keeps the key in a 0600 file inside a 0700 directory.
// On Unix the permissions are verified on every read and write.
type FileKeyStore struct {
	path string
}

// NewFileKeyStore returns a key store at path.
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// Store implements KeyStore.
func (f *FileKeyStore) Store(key []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), util.PrivateDirPerm); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := f.checkDir(); err != nil {
		return err
	}
	if err := util.AtomicWriteFile(f.path, key, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// Retrieve implements KeyStore.
func (f *FileKeyStore) Retrieve() ([]byte, error) {
	if err := f.checkDir(); err != nil {
		return nil, err
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(f.path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat key file: %w", err)
		}
		if mode := info.Mode().Perm(); mode&0077 != 0 {
			return nil, fmt.Errorf("%w: %s has mode %o, fix with: chmod 600 %s",
				ErrInsecurePermissions, f.path, mode, f.path)
		}
	}

	key, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return key, nil
}

// Delete overwrites the key file with zeros, then removes it.
func (f *FileKeyStore) Delete() error {
	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat key file for deletion: %w", err)
	}

	if size := info.Size(); size > 0 {
		if fh, err := os.OpenFile(f.path, os.O_WRONLY, 0600); err == nil {
			_, _ = fh.Write(make([]byte, size))
			_ = fh.Sync()
			_ = fh.Close()
		}
	}

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete key file: %w", err)
	}
	return nil
}

func (f *FileKeyStore) checkDir() error {
	if runtime.GOOS == "windows" {
		return nil
	}
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat key directory: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		return fmt.Errorf("%w: directory %s has mode %o, fix with: chmod 700 %s",
			ErrInsecurePermissions, dir, mode, dir)
	}
	return nil
}

// LoadOrCreateKey returns the stored master key, generating and storing
// a fresh random one the first time.
func LoadOrCreateKey(ks KeyStore) ([]byte, error) {
	key, err := ks.Retrieve()
	if err == nil {
		if len(key) != MasterKeySize {
			return nil, fmt.Errorf("master key has %d bytes, want %d", len(key), MasterKeySize)
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	key = make([]byte, MasterKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("cryptographic random generation failed: %w", err)
	}
	if err := ks.Store(key); err != nil {
		return nil, err
	}
	return key, nil
}
