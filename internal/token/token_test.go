// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(payload string) string {
	return "h." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".s"
}

func TestExpiry_ZeroEpoch(t *testing.T) {
	exp, err := Expiry("h.eyJleHAiOjB9.s")
	require.NoError(t, err)
	assert.Equal(t, int64(0), exp.Unix())
	assert.True(t, Expired("h.eyJleHAiOjB9.s", time.Now()))
}

func TestExpiry_Future(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tok := makeToken(`{"exp":1700003600,"sub":"42"}`)

	exp, err := Expiry(tok)
	require.NoError(t, err)
	assert.True(t, exp.Equal(now.Add(time.Hour)), "exp = %v", exp)
	assert.False(t, Expired(tok, now))
	assert.True(t, Expired(tok, now.Add(time.Hour+time.Millisecond)))
}

func TestExpired_BoundaryIsNotExpired(t *testing.T) {
	tok := makeToken(`{"exp":100}`)
	// exp*1000 < now_ms is strict
	assert.False(t, Expired(tok, time.UnixMilli(100_000)))
	assert.True(t, Expired(tok, time.UnixMilli(100_001)))
}

func TestExpiry_PaddedSegment(t *testing.T) {
	payload := base64.URLEncoding.EncodeToString([]byte(`{"exp":12}`))
	require.Contains(t, payload, "=")
	exp, err := Expiry("h." + payload + ".s")
	require.NoError(t, err)
	assert.Equal(t, int64(12), exp.Unix())
}

func TestExpiry_URLAlphabet(t *testing.T) {
	tok := makeToken(`{"exp":5,"x":"??>>"}`)
	require.Contains(t, tok, "_")
	require.Contains(t, tok, "-")
	exp, err := Expiry(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(5), exp.Unix())
}

func TestExpiry_Malformed(t *testing.T) {
	cases := []string{
		"",
		"validtoken",
		"a.b",
		"a.b.c.d",
		"h.!!!.s",
		makeToken(`not json`),
	}
	for _, tc := range cases {
		_, err := Expiry(tc)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", tc)
		assert.False(t, Expired(tc, time.Now()), "malformed %q must not read as expired", tc)
	}
}

func TestExpiry_NoExpClaim(t *testing.T) {
	_, err := Expiry(makeToken(`{"sub":"42"}`))
	assert.ErrorIs(t, err, ErrNoExpiry)

	_, err = Expiry(makeToken(`{"exp":"tomorrow"}`))
	assert.ErrorIs(t, err, ErrNoExpiry)
}

func TestExpiry_ZeroIsAnExpiry(t *testing.T) {
	for _, payload := range []string{`{"exp":0}`, `{"exp":0.0}`, `{"exp":-1}`} {
		exp, err := Expiry(makeToken(payload))
		require.NoError(t, err, payload)
		assert.LessOrEqual(t, exp.Unix(), int64(0), payload)
		assert.True(t, Expired(makeToken(payload), time.Unix(1, 0)), payload)
	}
}

func TestExpiry_FractionalSeconds(t *testing.T) {
	exp, err := Expiry(makeToken(`{"exp":100.5}`))
	require.NoError(t, err)
	assert.Equal(t, int64(100_500), exp.UnixMilli())
}

func TestExpiry_JSONNumberClaims(t *testing.T) {
	exp, err := expiryOf(jwt.MapClaims{"exp": json.Number("0")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), exp.Unix())

	_, err = expiryOf(jwt.MapClaims{"exp": json.Number("soon")})
	assert.ErrorIs(t, err, ErrNoExpiry)
}

func TestPast(t *testing.T) {
	exp := time.UnixMilli(5_000)
	assert.False(t, Past(exp, time.UnixMilli(5_000)))
	assert.True(t, Past(exp, time.UnixMilli(5_001)))
	assert.False(t, Past(exp, time.UnixMilli(4_999)))
}
