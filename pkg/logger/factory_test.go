package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelllharris/formkit/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("creates JSON logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		require.NotNil(t, log)
		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text formatter option", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithTextFormatter())
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
	})

	t.Run("includes default attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("formhttp")))
		log.Info("msg")
		assert.Equal(t, "formhttp", decode(t, buf)["component"])
	})

	t.Run("context value", func(t *testing.T) {
		buf := &bytes.Buffer{}
		type key string
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("trace", key("trace")))
		ctx := context.WithValue(context.Background(), key("trace"), "t-1")
		log.InfoContext(ctx, "msg")
		assert.Equal(t, "t-1", decode(t, buf)["trace"])
	})

	t.Run("debug is filtered at info level", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestFormIDExtractor(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(logger.FormIDExtractor, nil),
	)

	log.InfoContext(context.Background(), "no id")
	assert.NotContains(t, decode(t, buf), "form_id")

	buf.Reset()
	ctx := logger.WithFormID(context.Background(), "f-42")
	log.InfoContext(ctx, "with id")
	assert.Equal(t, "f-42", decode(t, buf)["form_id"])

	id, ok := logger.FormIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "f-42", id)

	_, ok = logger.FormIDFromContext(logger.WithFormID(context.Background(), ""))
	assert.False(t, ok)
}

func TestWithEnvironment(t *testing.T) {
	tests := []struct {
		env      string
		wantJSON bool
		wantEnv  string
	}{
		{env: "production", wantJSON: true, wantEnv: logger.EnvProduction},
		{env: "prod", wantJSON: true, wantEnv: logger.EnvProduction},
		{env: "stage", wantJSON: true, wantEnv: logger.EnvStaging},
		{env: "local", wantJSON: false, wantEnv: logger.EnvDevelopment},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(tt.env, "svc"))
			log.Info("msg")
			if tt.wantJSON {
				assert.Equal(t, tt.wantEnv, decode(t, buf)["env"])
				return
			}
			assert.Contains(t, buf.String(), "env="+tt.wantEnv)
			assert.Contains(t, buf.String(), "service=svc")
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.NewFromConfig(logger.Config{
		Env:     "production",
		Service: "formkit",
		Level:   "debug",
	}, logger.WithOutput(buf))

	log.Debug("visible")
	entry := decode(t, buf)
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "formkit", entry["service"])

	t.Run("format override", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.NewFromConfig(logger.Config{Env: "production", Format: "TEXT"}, logger.WithOutput(buf))
		log.Info("msg")
		assert.Contains(t, buf.String(), "level=INFO")
	})
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")
	assert.Equal(t, "default", decode(t, buf)["msg"])
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}
