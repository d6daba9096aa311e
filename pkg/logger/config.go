package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds logger settings loaded from the environment.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"formkit"`
	Level   string `env:"LOG_LEVEL" envDefault:""`
	Format  string `env:"LOG_FORMAT" envDefault:""`
}

// NewFromConfig builds a logger with the environment defaults of cfg.Env,
// then applies the explicit level and format overrides.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	all := []Option{WithOutput(os.Stderr), WithEnvironment(cfg.Env, cfg.Service)}
	if cfg.Level != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.Level)); err == nil {
			all = append(all, WithLevel(level))
		}
	}
	if cfg.Format != "" {
		all = append(all, WithFormat(Format(strings.ToLower(cfg.Format))))
	}
	all = append(all, opts...)
	return New(all...)
}
