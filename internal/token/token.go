// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package token reads the expiry claim out of a bearer token.
//
// The token is never verified here; the backend that issued it is the
// authority. The client only needs the exp claim to know when to drop a
// stored session.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when the token is not three dot-separated
	// segments or its claims segment cannot be decoded.
	ErrMalformed = errors.New("malformed token")

	// ErrNoExpiry is returned when the claims carry no numeric exp.
	ErrNoExpiry = errors.New("token carries no expiry")
)

// parser decodes base64url segments with or without padding.
var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// Claims decodes the middle segment of token into a claim map.
func Claims(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(parts))
	}

	raw, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

// Expiry returns the instant encoded in the token's exp claim. Any
// numeric exp counts, the Unix epoch included.
func Expiry(token string) (time.Time, error) {
	claims, err := Claims(token)
	if err != nil {
		return time.Time{}, err
	}
	return expiryOf(claims)
}

func expiryOf(claims jwt.MapClaims) (time.Time, error) {
	var (
		secs float64
		err  error
	)
	switch v := claims["exp"].(type) {
	case float64:
		secs = v
	case json.Number:
		if secs, err = v.Float64(); err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrNoExpiry, err)
		}
	case nil:
		return time.Time{}, ErrNoExpiry
	default:
		return time.Time{}, fmt.Errorf("%w: exp is %T", ErrNoExpiry, v)
	}

	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)), nil
}

// Expired reports whether token carries an expiry strictly before now.
// A token whose expiry is unknown is never considered expired.
func Expired(token string, now time.Time) bool {
	exp, err := Expiry(token)
	return err == nil && Past(exp, now)
}

// Past reports whether exp lies strictly before now, compared at
// millisecond precision.
func Past(exp, now time.Time) bool {
	return exp.UnixMilli() < now.UnixMilli()
}
