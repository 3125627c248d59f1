// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := []Option{
		WithRetryBackoff(time.Millisecond),
		WithRateLimit(0),
	}
	return New(server.URL+"/", append(base, opts...)...)
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login carries no bearer token")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body.Email)
		assert.Equal(t, "secreta", body.Password)

		_, _ = w.Write([]byte(`{"token":"h.p.s","user":{"id":42,"name":"Ana"}}`))
	}, WithTokenSource(func() string { return "stale" }))

	res, err := c.Login(context.Background(), " ana@example.com ", "secreta")
	require.NoError(t, err)
	assert.Equal(t, "h.p.s", res.Token)
	assert.Equal(t, ID("42"), res.User.ID)
	assert.Equal(t, "Ana", res.User.Name)
}

func TestLogin_InvalidCredentialsDoesNotTriggerHook(t *testing.T) {
	var hooked atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithUnauthorizedHandler(func() { hooked.Store(true) }))

	_, err := c.Login(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, hooked.Load())
}

func TestLogin_MissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":"1"}}`))
	})

	_, err := c.Login(context.Background(), "a@b.c", "x")
	assert.Error(t, err)
}

// =============================================================================
// GARMENT TESTS
// =============================================================================

func TestListGarments_SendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prendas", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		_, _ = w.Write([]byte(`[{"id":1,"nombre":"Camisa","tipo":"top","color":"azul","temporada":"verano"}]`))
	}, WithTokenSource(func() string { return "tok-1" }))

	garments, err := c.ListGarments(context.Background())
	require.NoError(t, err)
	require.Len(t, garments, 1)
	assert.Equal(t, Garment{ID: "1", Name: "Camisa", Category: "top", Color: "azul", Season: "verano"}, garments[0])
}

func TestListGarments_WrappedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"prendas":[{"id":"a1","nombre":"Falda"}]}`))
	})

	garments, err := c.ListGarments(context.Background())
	require.NoError(t, err)
	require.Len(t, garments, 1)
	assert.Equal(t, "Falda", garments[0].Name)
}

func TestListGarments_UnauthorizedRunsHook(t *testing.T) {
	var hooked atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	},
		WithTokenSource(func() string { return "expired" }),
		WithUnauthorizedHandler(func() { hooked.Add(1) }))

	_, err := c.ListGarments(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), hooked.Load(), "401 is not retried")
}

// =============================================================================
// RETRY TESTS
// =============================================================================

func TestRetry_ServerErrorThenSuccess(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	ids := map[string]bool{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids[r.Header.Get("X-Request-ID")] = true
		mu.Unlock()
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	garments, err := c.ListGarments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, garments)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, ids, 1, "retries reuse the request id")
}

func TestRetry_GivesUp(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"mantenimiento"}`))
	}, WithMaxRetries(2))

	_, err := c.ListGarments(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "mantenimiento", apiErr.Message)
}

func TestRetry_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad email"}`))
	})

	_, err := c.Login(context.Background(), "x", "y")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, err.Error(), "bad email")
}

func TestRetry_RateLimited(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.ListGarments(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(DefaultMaxRetries), calls.Load())
}

func TestRetry_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c := New(url, WithRetryBackoff(time.Millisecond), WithMaxRetries(2), WithRateLimit(0))
	_, err := c.ListGarments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetryBackoff(time.Second))

	_, err := c.ListGarments(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), calls.Load())
}

// =============================================================================
// MISC
// =============================================================================

func TestNotConfigured(t *testing.T) {
	_, err := New("").ListGarments(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResponseSizeCap(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", MaxResponseSize+10)))
	})

	_, err := c.ListGarments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum size")
}

func TestID_Unmarshal(t *testing.T) {
	var v struct{ A, B, C ID }
	require.NoError(t, json.Unmarshal([]byte(`{"A":"x1","B":7,"C":null}`), &v))
	assert.Equal(t, ID("x1"), v.A)
	assert.Equal(t, ID("7"), v.B)
	assert.Equal(t, ID(""), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"A":true}`), &v))
}

func TestBackoff(t *testing.T) {
	c := New("http://x")
	assert.Equal(t, retryBaseDelay, c.backoff(1))
	assert.Equal(t, 2*retryBaseDelay, c.backoff(2))
	assert.Equal(t, retryMaxDelay, c.backoff(30))
}
