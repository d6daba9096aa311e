package httpserver

import (
	"log/slog"
	"net"
	"time"
)

// Option configures the HTTP server.
type Option func(*config)

// WithAddr sets the listen address. Empty addresses are ignored.
func WithAddr(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.addr = addr
		}
	}
}

// WithListener serves on an already bound listener instead of WithAddr.
func WithListener(ln net.Listener) Option {
	return func(c *config) { c.listener = ln }
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return func(c *config) { c.readHeaderTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(c *config) { c.readTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) { c.writeTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) { c.idleTimeout = d }
}

// WithShutdownTimeout bounds graceful shutdown. Non-positive values are ignored.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// WithLogger sets the logger for lifecycle events. Nil discards them.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithSignals makes Run shut down on SIGINT and SIGTERM. Enabled by default.
func WithSignals(enabled bool) Option {
	return func(c *config) { c.signals = enabled }
}

// WithStartHook registers fn to run once the listener is bound. It receives
// the actual listen address.
func WithStartHook(fn func(addr string)) Option {
	return func(c *config) {
		if fn != nil {
			c.startHooks = append(c.startHooks, fn)
		}
	}
}

// WithStopHook registers fn to run after shutdown completes.
func WithStopHook(fn func()) Option {
	return func(c *config) {
		if fn != nil {
			c.stopHooks = append(c.stopHooks, fn)
		}
	}
}
