package providers

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

// RetryConfig is the retry policy answer API clients apply to their
// HTTP calls. Backoff is exponential with jitter; an optional Limiter
// paces attempts to stay under a provider's rate limit.
type RetryConfig struct {
	MaxRetries      int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	BackoffFactor   float64
	RetryableErrors []int // HTTP status codes worth retrying
	Limiter         *RateLimiter
}

// DefaultRetryConfig returns the policy clients start from: three
// retries, 500ms initial backoff doubling up to 10s, no limiter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2.0,
		RetryableErrors: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// RetryableStatus reports whether a status code is in the retry set.
func (rc *RetryConfig) RetryableStatus(statusCode int) bool {
	for _, code := range rc.RetryableErrors {
		if statusCode == code {
			return true
		}
	}
	return false
}

// CalculateBackoff returns the wait before the given attempt's retry:
// initial * factor^attempt with ±25% jitter, capped at MaxBackoff.
func (rc *RetryConfig) CalculateBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	wait := float64(rc.InitialBackoff) * math.Pow(rc.BackoffFactor, float64(attempt))
	//nolint:gosec // jitter does not need a crypto source
	wait *= 1 + 0.25*(2*rand.Float64()-1)

	if capped := float64(rc.MaxBackoff); wait > capped {
		wait = capped
	}
	return time.Duration(wait)
}

// DoWithRetry runs operation until it succeeds, returns a permanent
// error, or the retry budget is spent. The limiter, when set, paces
// every attempt including the first.
func (rc *RetryConfig) DoWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}
		if rc.Limiter != nil {
			if err := rc.Limiter.Wait(ctx); err != nil {
				return err
			}
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}
		if attempt == rc.MaxRetries || !rc.isRetryable(lastErr) {
			break
		}

		if err := SleepWithContext(ctx, rc.CalculateBackoff(attempt)); err != nil {
			return fmt.Errorf("context cancelled during retry: %w", err)
		}
	}

	if rc.isRetryable(lastErr) {
		return fmt.Errorf("max retries (%d) exceeded: %w", rc.MaxRetries, lastErr)
	}
	return lastErr
}

// DoJSONRetry is DoJSON under this retry policy. The decoded payload
// and raw body from the last attempt are returned.
func (rc *RetryConfig) DoJSONRetry(ctx context.Context, client *http.Client, method, url string, headers map[string]string, payload interface{}) (map[string]interface{}, []byte, error) {
	var (
		data map[string]interface{}
		body []byte
	)
	err := rc.DoWithRetry(ctx, func() error {
		var opErr error
		data, body, opErr = DoJSON(ctx, client, method, url, headers, payload)
		return opErr
	})
	if err != nil {
		return nil, body, err
	}
	return data, body, nil
}

// retryIndicators are substrings that mark an error transient. DoJSON
// folds status codes into error text, so this covers both HTTP status
// failures and transport-level ones.
var retryIndicators = []string{
	"rate limit",
	"ratelimit",
	"too many requests",
	"quota exceeded",
	"limit exceeded",
	"429",
	"500",
	"502",
	"503",
	"504",
	"internal server error",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
	"connection refused",
	"no such host",
	"temporary",
	"deadline exceeded",
	"eof",
}

func (rc *RetryConfig) isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range retryIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

// SleepWithContext sleeps for the duration unless the context ends first.
func SleepWithContext(ctx context.Context, duration time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(duration):
		return nil
	}
}
