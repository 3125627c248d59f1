// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/armario-tui/internal/kvstore"
)

func testKey() []byte {
	key := make([]byte, MasterKeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

// =============================================================================
// SEALER TESTS
// =============================================================================

func TestSealer_RoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := kvstore.NewMemoryStore()
	s, err := NewSealer(inner, testKey())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "authToken", "h.p.s"))

	raw, ok, err := inner.Get(ctx, "authToken")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, sealedPrefix))
	assert.NotContains(t, raw, "h.p.s")

	v, ok, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "h.p.s", v)
}

func TestSealer_FreshNoncePerWrite(t *testing.T) {
	ctx := context.Background()
	inner := kvstore.NewMemoryStore()
	s, err := NewSealer(inner, testKey())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "userName", "Ana"))
	first, _, _ := inner.Get(ctx, "userName")
	require.NoError(t, s.Set(ctx, "userName", "Ana"))
	second, _, _ := inner.Get(ctx, "userName")

	assert.NotEqual(t, first, second)
}

func TestSealer_KeyNameBound(t *testing.T) {
	ctx := context.Background()
	inner := kvstore.NewMemoryStore()
	s, err := NewSealer(inner, testKey())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "userName", "Ana"))
	raw, _, _ := inner.Get(ctx, "userName")
	require.NoError(t, inner.Set(ctx, "userId", raw))

	_, ok, err := s.Get(ctx, "userId")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrUnseal))
}

func TestSealer_WrongKey(t *testing.T) {
	ctx := context.Background()
	inner := kvstore.NewMemoryStore()
	s, err := NewSealer(inner, testKey())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "authToken", "tok"))

	other := make([]byte, MasterKeySize)
	s2, err := NewSealer(inner, other)
	require.NoError(t, err)

	_, ok, err := s2.Get(ctx, "authToken")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUnseal)
}

func TestSealer_CorruptValues(t *testing.T) {
	ctx := context.Background()
	inner := kvstore.NewMemoryStore()
	s, err := NewSealer(inner, testKey())
	require.NoError(t, err)

	for _, raw := range []string{sealedPrefix + "!!!", sealedPrefix + "AAAA"} {
		require.NoError(t, inner.Set(ctx, "authToken", raw))
		_, ok, err := s.Get(ctx, "authToken")
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrUnseal, raw)
	}
}

func TestSealer_PlainValuePassesThrough(t *testing.T) {
	ctx := context.Background()
	inner := kvstore.NewMemoryStore()
	require.NoError(t, inner.Set(ctx, "authToken", "legacy"))

	s, err := NewSealer(inner, testKey())
	require.NoError(t, err)

	v, ok, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "legacy", v)
}

func TestSealer_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	inner := kvstore.NewMemoryStore()
	s, err := NewSealer(inner, testKey())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "authToken", "a"))
	require.NoError(t, s.Set(ctx, "userId", "7"))
	require.NoError(t, s.Remove(ctx, "authToken"))
	_, ok, _ := s.Get(ctx, "authToken")
	assert.False(t, ok)

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 0, inner.Len())
}

func TestNewSealer_BadKey(t *testing.T) {
	_, err := NewSealer(kvstore.NewMemoryStore(), []byte("short"))
	assert.Error(t, err)
}

// =============================================================================
// KEYSTORE TESTS
// =============================================================================

func TestFileKeyStore_StoreRetrieveDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "armario", "master.key")
	ks := NewFileKeyStore(path)

	_, err := ks.Retrieve()
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, ks.Store(testKey()))
	got, err := ks.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, testKey(), got)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	require.NoError(t, ks.Delete())
	require.NoError(t, ks.Delete(), "deleting twice is fine")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileKeyStore_RejectsLooseFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not enforced on windows")
	}
	path := filepath.Join(t.TempDir(), "armario", "master.key")
	ks := NewFileKeyStore(path)
	require.NoError(t, ks.Store(testKey()))
	require.NoError(t, os.Chmod(path, 0644))

	_, err := ks.Retrieve()
	assert.ErrorIs(t, err, ErrInsecurePermissions)
}

func TestFileKeyStore_RejectsLooseDirMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not enforced on windows")
	}
	dir := filepath.Join(t.TempDir(), "armario")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.Chmod(dir, 0755))

	err := NewFileKeyStore(filepath.Join(dir, "master.key")).Store(testKey())
	assert.ErrorIs(t, err, ErrInsecurePermissions)
}

func TestLoadOrCreateKey(t *testing.T) {
	ks := NewFileKeyStore(filepath.Join(t.TempDir(), "armario", "master.key"))

	first, err := LoadOrCreateKey(ks)
	require.NoError(t, err)
	assert.Len(t, first, MasterKeySize)

	second, err := LoadOrCreateKey(ks)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrCreateKey_WrongLength(t *testing.T) {
	ks := NewFileKeyStore(filepath.Join(t.TempDir(), "armario", "master.key"))
	require.NoError(t, ks.Store([]byte("too short")))

	_, err := LoadOrCreateKey(ks)
	assert.Error(t, err)
}
