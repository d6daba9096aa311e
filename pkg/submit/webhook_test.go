package submit_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/requestid"
	"github.com/mitchelllharris/formkit/pkg/submit"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

func fastRetry() submit.Option {
	return submit.WithBackoff(submit.FixedBackoff{Interval: time.Millisecond})
}

func TestWebhookDelivers(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		got     submit.Payload
		headers http.Header
		body    []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		body, _ = io.ReadAll(r.Body)
		headers = r.Header.Clone()
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	fn := submit.Webhook(srv.URL,
		submit.WithSecret("s3cret"),
		submit.WithHeader("X-Tenant", "acme"),
	)
	ctx := submit.WithMeta(context.Background(), submit.Meta{Form: "signup", ID: "d-1"})
	ctx = requestid.WithContext(ctx, "req-7")
	require.NoError(t, fn(ctx, validator.Values{"email": "jane@example.com"}))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "signup", got.Form)
	assert.Equal(t, "d-1", got.ID)
	assert.Equal(t, "jane@example.com", got.Values["email"])
	assert.WithinDuration(t, time.Now(), got.SubmittedAt, time.Minute)
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "acme", headers.Get("X-Tenant"))
	assert.Equal(t, "req-7", headers.Get(requestid.Header))

	sig, err := submit.ParseSignature(headers)
	require.NoError(t, err)
	require.NoError(t, submit.Verify("s3cret", body, sig, time.Minute))
	assert.ErrorIs(t, submit.Verify("other", body, sig, time.Minute), submit.ErrInvalidSignature)
}

func TestWebhookRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var attempts []submit.Attempt
	fn := submit.Webhook(srv.URL, fastRetry(), submit.WithOnAttempt(func(a submit.Attempt) {
		attempts = append(attempts, a)
	}))
	require.NoError(t, fn(context.Background(), validator.Values{}))

	assert.EqualValues(t, 3, calls.Load())
	require.Len(t, attempts, 3)
	assert.Equal(t, http.StatusServiceUnavailable, attempts[0].StatusCode)
	assert.Error(t, attempts[0].Err)
	assert.Equal(t, 3, attempts[2].Number)
	assert.NoError(t, attempts[2].Err)
}

func TestWebhookFailures(t *testing.T) {
	t.Parallel()

	t.Run("permanent failure stops at once", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad payload", http.StatusBadRequest)
		}))
		defer srv.Close()

		err := submit.Webhook(srv.URL, fastRetry())(context.Background(), validator.Values{})
		assert.ErrorIs(t, err, submit.ErrPermanentFailure)
		assert.Contains(t, err.Error(), "bad payload")
		assert.EqualValues(t, 1, calls.Load())
	})

	for _, status := range []int{http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests, http.StatusBadGateway} {
		t.Run(http.StatusText(status)+" is retried", func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(status)
			}))
			defer srv.Close()

			err := submit.Webhook(srv.URL, fastRetry(), submit.WithMaxRetries(2))(context.Background(), validator.Values{})
			assert.ErrorIs(t, err, submit.ErrDeliveryFailed)
			assert.EqualValues(t, 3, calls.Load())
		})
	}

	t.Run("per attempt timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		err := submit.Webhook(srv.URL,
			submit.WithTimeout(20*time.Millisecond),
			submit.WithMaxRetries(0),
		)(context.Background(), validator.Values{})
		assert.ErrorIs(t, err, submit.ErrTimeout)
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		fn := submit.Webhook(srv.URL,
			submit.WithBackoff(submit.FixedBackoff{Interval: time.Hour}),
			submit.WithOnAttempt(func(submit.Attempt) { cancel() }),
		)
		err := fn(ctx, validator.Values{})
		assert.ErrorIs(t, err, submit.ErrDeliveryFailed)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid url", func(t *testing.T) {
		for _, u := range []string{"", "ftp://example.com", "http://", "://bad"} {
			err := submit.Webhook(u)(context.Background(), validator.Values{})
			assert.ErrorIs(t, err, submit.ErrInvalidURL, u)
		}
	})
}

func TestWebhookWithForm(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := form.New(validator.Values{"name": "Jane"}, validator.Rules{"name": {validator.Required()}})
	err := f.HandleSubmit(submit.Webhook(srv.URL, submit.WithMaxRetries(0)))(context.Background())

	assert.ErrorIs(t, err, submit.ErrDeliveryFailed)
	assert.False(t, form.IsBlocked(err))
	assert.False(t, f.Submitting())
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	exp := submit.ExponentialBackoff{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second}
	assert.Zero(t, exp.NextInterval(0))
	assert.Equal(t, 100*time.Millisecond, exp.NextInterval(1))
	assert.Equal(t, 200*time.Millisecond, exp.NextInterval(2))
	assert.Equal(t, 400*time.Millisecond, exp.NextInterval(3))
	assert.Equal(t, time.Second, exp.NextInterval(10))

	jittered := submit.ExponentialBackoff{InitialInterval: time.Second, JitterFactor: 0.1}
	for range 20 {
		d := jittered.NextInterval(1)
		assert.GreaterOrEqual(t, d, 900*time.Millisecond)
		assert.LessOrEqual(t, d, 1100*time.Millisecond)
	}

	assert.Equal(t, time.Second, submit.ExponentialBackoff{}.NextInterval(1))
	assert.Equal(t, 5*time.Millisecond, submit.FixedBackoff{Interval: 5 * time.Millisecond}.NextInterval(7))
	assert.NotNil(t, submit.DefaultBackoff())
}
