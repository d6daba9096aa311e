package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchelllharris/formkit/pkg/config"
	"github.com/mitchelllharris/formkit/pkg/httpserver"
	"github.com/mitchelllharris/formkit/pkg/logger"
	formredis "github.com/mitchelllharris/formkit/pkg/redis"
	"github.com/mitchelllharris/formkit/pkg/schema"
)

// Store backends.
const (
	storeMemory = "memory"
	storeRedis  = "redis"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Log   logger.Config
	HTTP  httpserver.Config
	Redis formredis.Config

	FormsDir        string        `env:"FORMKIT_FORMS_DIR" envDefault:"./forms"`
	LocalesDir      string        `env:"FORMKIT_LOCALES_DIR"`
	DefaultLanguage string        `env:"FORMKIT_DEFAULT_LANGUAGE" envDefault:"en"`
	BasePath        string        `env:"FORMKIT_BASE_PATH" envDefault:"/forms"`
	MetricsPath     string        `env:"FORMKIT_METRICS_PATH" envDefault:"/metrics"`
	Store           string        `env:"FORMKIT_STORE" envDefault:"memory"`
	DraftTTL        time.Duration `env:"FORMKIT_DRAFT_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"FORMKIT_CLEANUP_INTERVAL" envDefault:"10m"`
	RedisKeyPrefix  string        `env:"FORMKIT_REDIS_KEY_PREFIX" envDefault:"formkit:draft:"`
	WebhookURL      string        `env:"FORMKIT_WEBHOOK_URL"`
	WebhookSecret   string        `env:"FORMKIT_WEBHOOK_SECRET"`
	WebhookTimeout  time.Duration `env:"FORMKIT_WEBHOOK_TIMEOUT" envDefault:"10s"`
	WebhookRetries  int           `env:"FORMKIT_WEBHOOK_MAX_RETRIES" envDefault:"3"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	switch cfg.Store {
	case storeMemory, storeRedis:
	default:
		return Config{}, fmt.Errorf("FORMKIT_STORE must be %q or %q, got %q", storeMemory, storeRedis, cfg.Store)
	}
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")
	return cfg, nil
}

// loadDefinition reads a form definition file. With a component name the
// file is read as an OpenAPI document instead.
func loadDefinition(ctx context.Context, path, component string) (*schema.Definition, error) {
	if component == "" {
		return schema.LoadFile(path)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read openapi document: %w", err)
	}
	return schema.FromOpenAPI(ctx, data, component)
}
