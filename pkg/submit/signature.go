package submit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Signature header names.
const (
	HeaderSignature = "X-Formkit-Signature"
	HeaderTimestamp = "X-Formkit-Timestamp"
	HeaderID        = "X-Formkit-Delivery"
)

// Signature binds a payload to a timestamp with HMAC-SHA256 over
// "<timestamp>.<payload>".
type Signature struct {
	Value     string
	Timestamp int64
	ID        string
}

// Sign computes the signature of payload at the current time.
func Sign(secret string, payload []byte) (Signature, error) {
	if secret == "" {
		return Signature{}, fmt.Errorf("%w: secret is required", ErrInvalidSignature)
	}
	ts := time.Now().Unix()
	return Signature{
		Value:     mac(secret, ts, payload),
		Timestamp: ts,
		ID:        uuid.NewString(),
	}, nil
}

// Apply sets the signature headers on h.
func (s Signature) Apply(h http.Header) {
	h.Set(HeaderSignature, s.Value)
	h.Set(HeaderTimestamp, strconv.FormatInt(s.Timestamp, 10))
	h.Set(HeaderID, s.ID)
}

// ParseSignature reads the signature headers from h.
func ParseSignature(h http.Header) (Signature, error) {
	sig := Signature{Value: h.Get(HeaderSignature), ID: h.Get(HeaderID)}
	ts, err := strconv.ParseInt(h.Get(HeaderTimestamp), 10, 64)
	if err != nil || sig.Value == "" {
		return Signature{}, fmt.Errorf("%w: missing or malformed headers", ErrInvalidSignature)
	}
	sig.Timestamp = ts
	return sig, nil
}

// Verify checks sig against payload in constant time. A positive maxAge
// rejects signatures older than maxAge or more than a minute in the future.
func Verify(secret string, payload []byte, sig Signature, maxAge time.Duration) error {
	if secret == "" {
		return fmt.Errorf("%w: secret is required", ErrInvalidSignature)
	}
	if maxAge > 0 {
		age := time.Since(time.Unix(sig.Timestamp, 0))
		if age > maxAge {
			return fmt.Errorf("%w: timestamp too old: %v", ErrInvalidSignature, age)
		}
		if age < -time.Minute {
			return fmt.Errorf("%w: timestamp is in the future", ErrInvalidSignature)
		}
	}
	if !hmac.Equal([]byte(mac(secret, sig.Timestamp, payload)), []byte(sig.Value)) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidSignature)
	}
	return nil
}

func mac(secret string, ts int64, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.", ts)
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
