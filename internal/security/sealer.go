// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jeranaias/armario-tui/internal/kvstore"
)

// sealedPrefix marks values written by Sealer. The version lets the
// format change without misreading old values.
const sealedPrefix = "sealed:v1:"

// ErrUnseal is returned when a stored value cannot be authenticated.
var ErrUnseal = errors.New("cannot unseal stored value")

// Sealer is a kvstore.Store that encrypts values with
// XChaCha20-Poly1305 before handing them to the inner store. The key
// name is bound as additional data, so a value copied under another key
// fails to open.
type Sealer struct {
	inner kvstore.Store
	aead  cipher.AEAD
}

// NewSealer wraps inner with the given 32-byte key.
func NewSealer(inner kvstore.Store, key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	return &Sealer{inner: inner, aead: aead}, nil
}

// Get implements kvstore.Store. Values written before sealing was
// enabled (no prefix) are returned unchanged.
func (s *Sealer) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	if !strings.HasPrefix(raw, sealedPrefix) {
		return raw, true, nil
	}

	blob, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(raw, sealedPrefix))
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrUnseal, key, err)
	}
	ns := s.aead.NonceSize()
	if len(blob) < ns+s.aead.Overhead() {
		return "", false, fmt.Errorf("%w: %s: ciphertext too short", ErrUnseal, key)
	}
	plain, err := s.aead.Open(nil, blob[:ns], blob[ns:], []byte(key))
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrUnseal, key, err)
	}
	return string(plain), true, nil
}

// Set implements kvstore.Store.
func (s *Sealer) Set(ctx context.Context, key, value string) error {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	blob := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return s.inner.Set(ctx, key, sealedPrefix+base64.RawStdEncoding.EncodeToString(blob))
}

// Remove implements kvstore.Store.
func (s *Sealer) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

// Clear implements kvstore.Store.
func (s *Sealer) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}
