package webhook

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

// Signature headers set on signed deliveries.
const (
	HeaderSignature = "X-Dataguard-Signature"
	HeaderTimestamp = "X-Dataguard-Timestamp"
	HeaderDelivery  = "X-Dataguard-Delivery"
)

// Signature authenticates one delivery.
// Value is hex(HMAC-SHA256(secret, "<unix timestamp>.<payload>")).
type Signature struct {
	Value     string
	Timestamp int64
	ID        string
}

// Sign signs payload at time now.
func Sign(secret string, payload []byte, now time.Time) (Signature, error) {
	if secret == "" {
		return Signature{}, fmt.Errorf("%w: secret is required", ErrInvalidSignature)
	}
	if len(payload) == 0 {
		return Signature{}, fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}
	ts := now.Unix()
	return Signature{Value: mac(secret, ts, payload), Timestamp: ts, ID: uuid.NewString()}, nil
}

// Apply sets the signature headers on h.
func (s Signature) Apply(h http.Header) {
	h.Set(HeaderSignature, s.Value)
	h.Set(HeaderTimestamp, strconv.FormatInt(s.Timestamp, 10))
	h.Set(HeaderDelivery, s.ID)
}

// SignatureFromHeader reads the signature headers of a received delivery.
func SignatureFromHeader(h http.Header) (Signature, error) {
	sig := Signature{Value: h.Get(HeaderSignature), ID: h.Get(HeaderDelivery)}
	raw := h.Get(HeaderTimestamp)
	if sig.Value == "" || raw == "" {
		return Signature{}, fmt.Errorf("%w: missing signature headers", ErrInvalidSignature)
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: bad timestamp %q", ErrInvalidSignature, raw)
	}
	sig.Timestamp = ts
	return sig, nil
}

// Verify checks sig against payload. A positive maxAge rejects signatures
// older than maxAge or more than a minute in the future.
func Verify(secret string, payload []byte, sig Signature, maxAge time.Duration, now time.Time) error {
	if secret == "" {
		return fmt.Errorf("%w: secret is required", ErrInvalidSignature)
	}
	if maxAge > 0 {
		age := now.Sub(time.Unix(sig.Timestamp, 0))
		if age > maxAge {
			return fmt.Errorf("%w: signed %v ago", ErrInvalidSignature, age.Truncate(time.Second))
		}
		if age < -time.Minute {
			return fmt.Errorf("%w: timestamp in the future", ErrInvalidSignature)
		}
	}
	if !hmac.Equal([]byte(mac(secret, sig.Timestamp, payload)), []byte(sig.Value)) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidSignature)
	}
	return nil
}

func mac(secret string, ts int64, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(strconv.FormatInt(ts, 10)))
	h.Write([]byte{'.'})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
