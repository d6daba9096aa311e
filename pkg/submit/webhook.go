package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/logger"
	"github.com/mitchelllharris/formkit/pkg/requestid"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

// Sender delivers submitted values to an HTTP endpoint as a JSON Payload.
type Sender struct {
	url        string
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	backoff    BackoffStrategy
	secret     string
	headers    http.Header
	logger     *slog.Logger
	onAttempt  func(Attempt)
	now        func() time.Time
}

// NewSender validates endpoint and builds a sender for it.
func NewSender(endpoint string, opts ...Option) (*Sender, error) {
	if err := validateURL(endpoint); err != nil {
		return nil, err
	}

	w := &Sender{
		url: endpoint,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:    10 * time.Second,
		maxRetries: 3,
		backoff:    DefaultBackoff(),
		headers:    http.Header{},
		logger:     discardLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Webhook returns a form.SubmitFunc that delivers to endpoint. An invalid
// endpoint makes every submission fail with ErrInvalidURL.
func Webhook(endpoint string, opts ...Option) form.SubmitFunc {
	w, err := NewSender(endpoint, opts...)
	if err != nil {
		return func(context.Context, validator.Values) error { return err }
	}
	return w.Submit
}

// Submit delivers values, retrying temporary failures with backoff. 4xx
// responses other than 408, 425 and 429 fail at once with ErrPermanentFailure.
func (w *Sender) Submit(ctx context.Context, values validator.Values) error {
	meta := MetaFromContext(ctx)
	payload, err := json.Marshal(Payload{
		Form:        meta.Form,
		ID:          meta.ID,
		SubmittedAt: w.now().UTC(),
		Values:      values,
	})
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(ErrDeliveryFailed, ctx.Err())
			case <-time.After(w.backoff.NextInterval(attempt)):
			}
		}

		status, dur, err := w.attempt(ctx, payload)
		if w.onAttempt != nil {
			w.onAttempt(Attempt{Number: attempt + 1, StatusCode: status, Duration: dur, Err: err})
		}
		if err == nil {
			w.logger.DebugContext(ctx, "submission delivered",
				logger.Form(meta.Form),
				logger.RetryCount(attempt),
				logger.Duration(dur),
			)
			return nil
		}

		lastErr = err
		w.logger.WarnContext(ctx, "submission attempt failed",
			logger.Form(meta.Form),
			logger.RetryCount(attempt),
			logger.Error(err),
		)
		if isPermanent(status) {
			return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, w.maxRetries+1, lastErr)
}

func (w *Sender) attempt(ctx context.Context, payload []byte) (int, time.Duration, error) {
	start := time.Now()
	reqCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return 0, time.Since(start), fmt.Errorf("create request: %w", err)
	}
	for k, v := range w.headers {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "formkit-submit/1.0")
	requestid.Propagate(ctx, req.Header)

	if w.secret != "" {
		sig, err := Sign(w.secret, payload)
		if err != nil {
			return 0, time.Since(start), err
		}
		sig.Apply(req.Header)
	}

	resp, err := w.client.Do(req)
	dur := time.Since(start)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return 0, dur, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return 0, dur, fmt.Errorf("%w: %w", ErrTemporaryFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return resp.StatusCode, dur, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	msg := fmt.Sprintf("endpoint returned status %d", resp.StatusCode)
	if text := strings.ReplaceAll(strings.TrimSpace(string(body)), "\n", " "); text != "" {
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		msg += ": " + text
	}
	return resp.StatusCode, dur, errors.New(msg)
}

// isPermanent reports whether a status will not change on retry.
func isPermanent(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	}
	return true
}

func validateURL(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	return nil
}
