// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/armario-tui/internal/api"
	"github.com/jeranaias/armario-tui/internal/bootstrap"
	"github.com/jeranaias/armario-tui/internal/config"
	"github.com/jeranaias/armario-tui/internal/util"
)

// =============================================================================
// HELPERS
// =============================================================================

func futureToken() string {
	claims := fmt.Sprintf(`{"sub":"7","exp":%d}`, time.Now().Add(2*time.Hour).Unix())
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(claims)) + ".c2ln"
}

func openEnv(t *testing.T, baseURL string) *bootstrap.Env {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	require.NoError(t, os.Chmod(cfg.Storage.Dir, 0o700))
	cfg.API.MaxRetries = 1
	cfg.API.RequestsPerSec = 0
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	env, err := bootstrap.Open(cfg, bootstrap.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })
	return env
}

func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, env := range []string{"ARMARIO_API_URL", "ARMARIO_PLATFORM", "ARMARIO_STORAGE_BACKEND", "ARMARIO_DATA_DIR", "ARMARIO_LOG_LEVEL"} {
		t.Setenv(env, "")
	}
}

func stubPassword(t *testing.T, password string, err error) {
	t.Helper()
	prev := PasswordReader
	PasswordReader = func(string) (string, error) { return password, err }
	t.Cleanup(func() { PasswordReader = prev })
}

// backend is a fake armario API.
func backend(t *testing.T, garments string) *httptest.Server {
	t.Helper()
	tok := futureToken()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			var body struct{ Email, Password string }
			json.NewDecoder(r.Body).Decode(&body)
			if body.Email != "ana@example.com" || body.Password != "secreto" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Credenciales inválidas"}`))
				return
			}
			fmt.Fprintf(w, `{"token":%q,"user":{"id":7,"name":"Ana"}}`, tok)
		case "/prendas":
			if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(garments))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		want     Command
		validate func(*testing.T, Args)
	}{
		{name: "no args starts the TUI", argv: nil, want: CmdTUI},
		{name: "help flag", argv: []string{"-h"}, want: CmdHelp},
		{name: "help flag after command", argv: []string{"status", "--help"}, want: CmdHelp},
		{
			name: "status json",
			argv: []string{"status", "--json"},
			want: CmdStatus,
			validate: func(t *testing.T, a Args) {
				assert.True(t, a.JSON)
			},
		},
		{name: "alias", argv: []string{"ls"}, want: CmdPrendas},
		{name: "case insensitive", argv: []string{"LOGOUT"}, want: CmdLogout},
		{
			name: "login flags",
			argv: []string{"login", "-e", "ana@example.com", "--password=secreto", "--remember", "-v"},
			want: CmdLogin,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "ana@example.com", a.Email)
				assert.Equal(t, "secreto", a.Password)
				assert.True(t, a.Remember)
				assert.True(t, a.Verbose)
			},
		},
		{
			name: "config subcommand and positionals",
			argv: []string{"config", "set", "api.base_url", "https://x.example/api"},
			want: CmdConfig,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "set", a.Subcommand)
				assert.Equal(t, []string{"set", "api.base_url", "https://x.example/api"}, a.Raw)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestParse_UnknownCommandSuggests(t *testing.T) {
	_, _, err := Parse([]string{"stauts"})

	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, usage.Message, `did you mean "status"`)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestParse_UnknownFlag(t *testing.T) {
	_, _, err := Parse([]string{"status", "--bogus"})

	var usage *UsageError
	assert.ErrorAs(t, err, &usage)
}

func TestCommand_NeedsSession(t *testing.T) {
	assert.True(t, CmdStatus.NeedsSession())
	assert.True(t, CmdTUI.NeedsSession())
	assert.False(t, CmdConfig.NeedsSession())
	assert.False(t, CmdVersion.NeedsSession())
	assert.Equal(t, "prendas", CmdPrendas.String())
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{&UsageError{Message: "x"}, ExitUsageError},
		{fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "a", Message: "b"}}), ExitConfigError},
		{ErrNotSignedIn, ExitAuthError},
		{fmt.Errorf("login failed: %w", api.ErrInvalidCredentials), ExitAuthError},
		{api.ErrUnauthorized, ExitAuthError},
		{&api.Error{Status: 503}, ExitNetworkError},
		{errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "%v", tt.err)
	}
}

func TestFail_PrintsErrorPrefix(t *testing.T) {
	var buf bytes.Buffer
	code := Fail(&buf, ErrNotSignedIn)

	assert.Equal(t, ExitAuthError, code)
	assert.True(t, strings.HasPrefix(buf.String(), "Error:"), buf.String())
}

func TestFinish(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, ExitSuccess, Finish(&out, &errOut, CmdStatus, Args{}, nil))
	assert.Empty(t, out.String()+errOut.String())

	code := Finish(&out, &errOut, CmdPrendas, Args{JSON: true}, ErrNotSignedIn)
	assert.Equal(t, ExitAuthError, code)
	assert.Empty(t, errOut.String(), "--json reports failures on stdout")

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "prendas", resp.Command)
	assert.Equal(t, ExitAuthError, resp.Code)
	assert.Equal(t, ErrNotSignedIn.Error(), resp.Error)

	out.Reset()
	assert.Equal(t, ExitNetworkError, Finish(&out, &errOut, CmdStatus, Args{}, &api.Error{Status: 502}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error:")
}

// =============================================================================
// LOGIN / LOGOUT / STATUS
// =============================================================================

func TestLogin_WithToken(t *testing.T) {
	env := openEnv(t, "")
	tok := futureToken()
	var out bytes.Buffer

	err := HandleLogin(context.Background(), env, Args{Token: tok, Name: "Ana", UserID: "7"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Signed in as Ana")
	assert.Contains(t, out.String(), "Session expires")
	assert.True(t, env.Session.IsAuthenticated())
	assert.Equal(t, "7", env.Session.Session().UserID)
}

func TestLogin_WithExpiredTokenWarns(t *testing.T) {
	env := openEnv(t, "")
	var out bytes.Buffer

	err := HandleLogin(context.Background(), env, Args{Token: "h.eyJleHAiOjB9.s"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "already expired")
	assert.NotContains(t, out.String(), "Session expires")
}

func TestLogin_WithPasswordPrompt(t *testing.T) {
	srv := backend(t, `[]`)
	env := openEnv(t, srv.URL)
	stubPassword(t, "secreto", nil)
	var out bytes.Buffer

	err := HandleLogin(context.Background(), env, Args{Email: "ana@example.com"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Signed in as Ana")
	assert.Equal(t, "7", env.Session.Session().UserID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := backend(t, `[]`)
	env := openEnv(t, srv.URL)

	err := HandleLogin(context.Background(), env, Args{Email: "ana@example.com", Password: "nope"}, io.Discard)

	assert.ErrorIs(t, err, api.ErrInvalidCredentials)
	assert.Equal(t, ExitAuthError, ExitCode(err))
	assert.False(t, env.Session.IsAuthenticated())
}

func TestLogin_PromptFailure(t *testing.T) {
	env := openEnv(t, "")
	stubPassword(t, "", &TTYRequiredError{Operation: "read a password"})

	err := HandleLogin(context.Background(), env, Args{Email: "ana@example.com"}, io.Discard)

	var tty *TTYRequiredError
	assert.ErrorAs(t, err, &tty)
}

func TestLogout(t *testing.T) {
	env := openEnv(t, "")
	require.NoError(t, HandleLogin(context.Background(), env, Args{Token: futureToken(), Name: "Ana"}, io.Discard))

	var out bytes.Buffer
	require.NoError(t, HandleLogout(context.Background(), env, &out))
	assert.Contains(t, out.String(), "Signed out Ana")
	assert.False(t, env.Session.IsAuthenticated())

	out.Reset()
	require.NoError(t, HandleLogout(context.Background(), env, &out))
	assert.Contains(t, out.String(), "nothing to clear")
}

func TestStatus_JSON(t *testing.T) {
	env := openEnv(t, "")
	require.NoError(t, HandleLogin(context.Background(), env, Args{Token: futureToken(), Name: "Ana", UserID: "7"}, io.Discard))

	var out bytes.Buffer
	require.NoError(t, HandleStatus(context.Background(), env, Args{JSON: true}, &out))

	var resp struct {
		OK      bool         `json:"ok"`
		Command string       `json:"command"`
		Data    StatusReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "status", resp.Command)
	assert.True(t, resp.Data.Authenticated)
	assert.Equal(t, "authenticated", resp.Data.State)
	assert.Equal(t, "Ana", resp.Data.UserName)
	assert.Equal(t, "native", resp.Data.Platform)
	require.NotNil(t, resp.Data.ExpiresAt)
	assert.True(t, resp.Data.ExpiresAt.After(time.Now()))
}

func TestStatus_SignedOutText(t *testing.T) {
	env := openEnv(t, "")
	var out bytes.Buffer

	require.NoError(t, HandleStatus(context.Background(), env, Args{}, &out))

	assert.Contains(t, out.String(), "signed out")
	assert.NotContains(t, out.String(), "Token")
}

// =============================================================================
// PRENDAS
// =============================================================================

func TestPrendas_RequiresSession(t *testing.T) {
	env := openEnv(t, "")

	err := HandlePrendas(context.Background(), env, Args{}, io.Discard)

	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestPrendas_Table(t *testing.T) {
	srv := backend(t, `[{"id":1,"nombre":"Camisa de lino","tipo":"camisa","color":"blanco","temporada":"verano"},
		{"id":"2","nombre":"Pantalón","tipo":"pantalón"}]`)
	env := openEnv(t, srv.URL)
	require.NoError(t, HandleLogin(context.Background(), env, Args{Token: futureToken(), Name: "Ana"}, io.Discard))

	var out bytes.Buffer
	require.NoError(t, HandlePrendas(context.Background(), env, Args{}, &out))

	text := out.String()
	assert.Contains(t, text, "Armario de Ana")
	assert.Contains(t, text, "Camisa de lino")
	assert.Contains(t, text, "Pantalón")
	assert.Contains(t, text, "2 garment(s)")
}

func TestPrendas_JSONEmptyList(t *testing.T) {
	srv := backend(t, `{"prendas":[]}`)
	env := openEnv(t, srv.URL)
	require.NoError(t, HandleLogin(context.Background(), env, Args{Token: futureToken()}, io.Discard))

	var out bytes.Buffer
	require.NoError(t, HandlePrendas(context.Background(), env, Args{JSON: true}, &out))

	assert.Contains(t, out.String(), `"data": []`)
}

func TestGarmentRow_AlignsAccentedNames(t *testing.T) {
	a := garmentRow("1", "Pantalón", "pantalón", "azul", "invierno")
	b := garmentRow("2", "Pantalon", "pantalon", "azul", "invierno")

	assert.Equal(t, util.DisplayWidth(a), util.DisplayWidth(b))
	assert.Contains(t, garmentRow("3", "", "", "", ""), "-")
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_SetGet(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	require.NoError(t, HandleConfig(Args{Subcommand: "set", Raw: []string{"set", "runtime.platform", "web"}}, &out))
	assert.Contains(t, out.String(), "runtime.platform = web")

	out.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "get", Raw: []string{"get", "runtime.platform"}}, &out))
	assert.Equal(t, "web\n", out.String())
}

func TestConfig_SetRejectsInvalid(t *testing.T) {
	isolate(t)

	err := HandleConfig(Args{Subcommand: "set", Raw: []string{"set", "storage.backend", "redis"}}, io.Discard)
	assert.Equal(t, ExitConfigError, ExitCode(err))

	err = HandleConfig(Args{Subcommand: "set", Raw: []string{"set", "nope.key", "1"}}, io.Discard)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	err = HandleConfig(Args{Subcommand: "get", Raw: []string{"get"}}, io.Discard)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestConfig_KeysAndPath(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	require.NoError(t, HandleConfig(Args{Subcommand: "keys"}, &out))
	assert.Contains(t, out.String(), "api.base_url\n")

	out.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "path"}, &out))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), "config.toml"))
}

func TestVersion_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, HandleVersion(&out, Args{JSON: true}))
	assert.Contains(t, out.String(), `"version": "`+Version+`"`)
}
