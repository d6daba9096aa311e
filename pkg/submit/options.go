package submit

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Attempt describes one delivery attempt.
type Attempt struct {
	Number     int
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Option configures a Sender.
type Option func(*Sender)

// WithTimeout bounds each HTTP attempt. Default 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(w *Sender) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithMaxRetries sets how many times a failed delivery is retried. Default 3.
func WithMaxRetries(n int) Option {
	return func(w *Sender) {
		if n >= 0 {
			w.maxRetries = n
		}
	}
}

// WithBackoff replaces DefaultBackoff.
func WithBackoff(b BackoffStrategy) Option {
	return func(w *Sender) {
		if b != nil {
			w.backoff = b
		}
	}
}

// WithSecret signs every delivery with HMAC-SHA256. See Sign.
func WithSecret(secret string) Option {
	return func(w *Sender) { w.secret = secret }
}

// WithHeader adds a header to every delivery.
func WithHeader(key, value string) Option {
	return func(w *Sender) {
		if key != "" {
			w.headers.Set(key, value)
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Sender) {
		if c != nil {
			w.client = c
		}
	}
}

// WithLogger sets the logger. If not specified, a discard logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(w *Sender) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithOnAttempt registers a callback run after every attempt, for metrics.
func WithOnAttempt(fn func(Attempt)) Option {
	return func(w *Sender) { w.onAttempt = fn }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
