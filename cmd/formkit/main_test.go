package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mitchelllharris/formkit/pkg/config"
	"github.com/mitchelllharris/formkit/pkg/prompt"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// freshConfig clears the environment formkit reads and the config cache.
func freshConfig(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{"FORMKIT_STORE", "FORMKIT_WEBHOOK_URL", "FORMKIT_BASE_PATH", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	config.ResetCache()
	t.Cleanup(config.ResetCache)
}

func TestRulesCmd(t *testing.T) {
	out, err := execute(t, newRootCmd(), "rules")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "required")
	assert.Contains(t, lines, "password_match")
	assert.IsNonDecreasing(t, lines)
}

func TestValidateCmd(t *testing.T) {
	def := filepath.Join("testdata", "forms", "contact.yaml")

	t.Run("all records valid", func(t *testing.T) {
		out, err := execute(t, newRootCmd(), "validate", def, filepath.Join("testdata", "valid_records.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "record 1: ok\nrecord 2: ok\n0 of 2 records invalid\n", out)
	})

	t.Run("invalid records are reported in order", func(t *testing.T) {
		out, err := execute(t, newRootCmd(), "validate", "--concurrency", "2", def, filepath.Join("testdata", "records.yaml"))
		require.ErrorIs(t, err, ErrInvalidRecords)
		assert.Equal(t, strings.Join([]string{
			"record 1: ok",
			"record 2: invalid",
			"  name: Must be at least 2 characters",
			"  email: Please enter a valid email address",
			"record 3: invalid",
			"  age: Must be at least 18",
			"2 of 3 records invalid",
			"",
		}, "\n"), out)
	})

	t.Run("messages in another language", func(t *testing.T) {
		out, err := execute(t, newRootCmd(), "validate", "--lang", "es", def, filepath.Join("testdata", "records.yaml"))
		require.ErrorIs(t, err, ErrInvalidRecords)
		assert.Contains(t, out, "  name: Debe tener al menos 2 caracteres\n")
	})

	t.Run("missing records file", func(t *testing.T) {
		_, err := execute(t, newRootCmd(), "validate", def, filepath.Join("testdata", "nope.yaml"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidRecords)
	})

	t.Run("wrong number of arguments", func(t *testing.T) {
		_, err := execute(t, newRootCmd(), "validate", def)
		require.Error(t, err)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		freshConfig(t, nil)
		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, storeMemory, cfg.Store)
		assert.Equal(t, "/forms", cfg.BasePath)
		assert.Equal(t, "/metrics", cfg.MetricsPath)
		assert.Equal(t, 24*time.Hour, cfg.DraftTTL)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.ConnectionURL)
	})

	t.Run("overrides", func(t *testing.T) {
		freshConfig(t, map[string]string{
			"FORMKIT_STORE":     "redis",
			"FORMKIT_BASE_PATH": "/f/",
			"FORMKIT_DRAFT_TTL": "1h",
		})
		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, storeRedis, cfg.Store)
		assert.Equal(t, "/f", cfg.BasePath)
		assert.Equal(t, time.Hour, cfg.DraftTTL)
	})

	t.Run("unknown store", func(t *testing.T) {
		freshConfig(t, map[string]string{"FORMKIT_STORE": "postgres"})
		_, err := loadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres")
	})
}

// answers is a prompt.Driver that replies from per-question queues and
// repeats a question while the validation hook rejects the answer.
type answers struct {
	queue map[string][]string
	infos []string
}

func (a *answers) next(cfg prompt.InputConfig) (string, error) {
	for {
		q := a.queue[cfg.Message]
		if len(q) == 0 {
			return "", errors.New("unexpected question " + cfg.Message)
		}
		answer := q[0]
		a.queue[cfg.Message] = q[1:]
		if cfg.Validate != nil && cfg.Validate(answer) != nil {
			continue
		}
		return answer, nil
	}
}

func (a *answers) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return a.next(cfg)
}

func (a *answers) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return a.next(cfg)
}

func (a *answers) Multiline(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return a.next(cfg)
}

func (a *answers) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return true, nil
}

func (a *answers) Select(_ context.Context, cfg prompt.SelectConfig) (string, error) {
	return a.next(prompt.InputConfig{Message: cfg.Message, Validate: cfg.Validate})
}

func (a *answers) Info(_ context.Context, msg string) error {
	a.infos = append(a.infos, msg)
	return nil
}

func TestFillCmd(t *testing.T) {
	def := filepath.Join("testdata", "forms", "contact.yaml")

	newAnswers := func() *answers {
		return &answers{queue: map[string][]string{
			"Name *":     {"J", "Jane"},
			"Email *":    {"jane@example.com"},
			"Age":        {"30"},
			"Passphrase": {"hunter2"},
		}}
	}

	t.Run("prints values with secrets masked", func(t *testing.T) {
		freshConfig(t, nil)
		driver := newAnswers()
		out, err := execute(t, newFillCmd(func() prompt.Driver { return driver }), def)
		require.NoError(t, err)
		assert.NotContains(t, out, "hunter2")

		var got map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, map[string]any{
			"name":   "Jane",
			"email":  "jane@example.com",
			"age":    30,
			"secret": redacted,
		}, got)
	})

	t.Run("show secrets", func(t *testing.T) {
		freshConfig(t, nil)
		driver := newAnswers()
		out, err := execute(t, newFillCmd(func() prompt.Driver { return driver }), "--show-secrets", def)
		require.NoError(t, err)
		assert.Contains(t, out, "secret: hunter2")
	})

	t.Run("writes to a file", func(t *testing.T) {
		freshConfig(t, nil)
		driver := newAnswers()
		path := filepath.Join(t.TempDir(), "out.yaml")
		out, err := execute(t, newFillCmd(func() prompt.Driver { return driver }), "-o", path, def)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.FileExists(t, path)
	})
}

func newTestApp(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	a, err := newApp(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a.handler
}

func testConfig(t *testing.T) Config {
	t.Helper()
	freshConfig(t, nil)
	cfg, err := loadConfig()
	require.NoError(t, err)
	cfg.FormsDir = filepath.Join("testdata", "forms")
	return cfg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewApp(t *testing.T) {
	t.Run("memory store", func(t *testing.T) {
		h := newTestApp(t, testConfig(t))

		rec := get(t, h, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())

		rec = get(t, h, "/forms/contact")
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/forms/contact/"))

		rec = get(t, h, rec.Header().Get("Location")+"/")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = get(t, h, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `formkit_http_drafts_created_total{form="contact"} 1`)
		assert.Contains(t, rec.Body.String(), "go_goroutines")

		assert.Equal(t, http.StatusNotFound, get(t, h, "/forms/unknown").Code)
	})

	t.Run("redis store is probed for readiness", func(t *testing.T) {
		srv := miniredis.RunT(t)
		cfg := testConfig(t)
		cfg.Store = storeRedis
		cfg.Redis.ConnectionURL = "redis://" + srv.Addr() + "/0"
		cfg.Redis.RetryAttempts = 1
		h := newTestApp(t, cfg)

		rec := get(t, h, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())

		rec = get(t, h, "/forms/contact")
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Len(t, srv.Keys(), 1)

		srv.SetError("LOADING")
		assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/readyz").Code)
	})

	t.Run("empty forms directory", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.FormsDir = t.TempDir()
		_, err := newApp(context.Background(), cfg, slog.New(slog.DiscardHandler))
		require.Error(t, err)
	})
}
