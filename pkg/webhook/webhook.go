package webhook

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

	"github.com/dmitrymomot/dataguard/pkg/logger"
)

const userAgent = "dataguard-webhook/1.0"

// Sender posts JSON events to one endpoint, retrying transient failures.
type Sender struct {
	client     *http.Client
	url        string
	secret     string
	timeout    time.Duration
	maxRetries int
	backoff    Backoff
	now        func() time.Time
	log        *slog.Logger
}

// Option configures a Sender.
type Option func(*Sender)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = c
		}
	}
}

func WithBackoff(b Backoff) Option {
	return func(s *Sender) { s.backoff = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the time source used for signatures.
func WithClock(now func() time.Time) Option {
	return func(s *Sender) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSender validates cfg.URL and returns a Sender for it.
// Only http and https endpoints are accepted.
func NewSender(cfg Config, opts ...Option) (*Sender, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	s := &Sender{
		client:     &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 4, IdleConnTimeout: 90 * time.Second}},
		url:        cfg.URL,
		secret:     cfg.Secret,
		timeout:    cmpOr(cfg.Timeout, 10*time.Second),
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    DefaultBackoff(),
		now:        time.Now,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send marshals event to JSON and posts it. 4xx responses other than 408,
// 425 and 429 are permanent and not retried.
func (s *Sender) Send(ctx context.Context, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(ErrDeliveryFailed, lastErr, ctx.Err())
			case <-time.After(s.backoff.Next(attempt)):
			}
		}

		status, err := s.post(ctx, payload)
		if err == nil {
			return nil
		}
		lastErr = err
		s.log.WarnContext(ctx, "webhook attempt failed",
			logger.Component("webhook"),
			slog.Int("attempt", attempt+1),
			slog.Int("status", status),
			logger.Error(err),
		)
		if permanent(status) {
			return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, s.maxRetries+1, lastErr)
}

func (s *Sender) post(ctx context.Context, payload []byte) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if s.secret != "" {
		sig, err := Sign(s.secret, payload, s.now())
		if err != nil {
			return 0, err
		}
		sig.Apply(req.Header)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return 0, fmt.Errorf("%w: %w", ErrTemporaryFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.ReplaceAll(strings.TrimSpace(string(body)), "\n", " ")
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		return resp.StatusCode, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, msg)
}

func permanent(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	}
	return status >= 400 && status < 500
}
