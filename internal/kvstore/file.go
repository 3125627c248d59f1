// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jeranaias/armario-tui/internal/util"
)

// FileStore keeps all keys in one JSON object on disk. Every operation
// re-reads the file so that writes from another armario process are
// seen; writes are atomic (see util.AtomicWriteFile) and 0600.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore backed by path. The file is created
// on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Get implements Store.
func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set implements Store.
func (f *FileStore) Set(ctx context.Context, key, value string) error {
	return f.update(ctx, func(values map[string]string) {
		values[key] = value
	})
}

// Remove implements Store.
func (f *FileStore) Remove(ctx context.Context, key string) error {
	return f.update(ctx, func(values map[string]string) {
		delete(values, key)
	})
}

// Clear implements Store.
func (f *FileStore) Clear(ctx context.Context) error {
	return f.update(ctx, func(values map[string]string) {
		for k := range values {
			delete(values, k)
		}
	})
}

func (f *FileStore) update(ctx context.Context, mutate func(map[string]string)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	mutate(values)

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := util.AtomicWriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}

// load must be called with f.mu held.
func (f *FileStore) load() (map[string]string, error) {
	data, ok, err := util.ReadFileIfExists(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	values := make(map[string]string)
	if !ok || len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode store %s: %w", f.path, err)
	}
	return values, nil
}
