package providers

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultRetryConfig_NoLimiter(t *testing.T) {
	rc := DefaultRetryConfig()
	if rc.Limiter != nil {
		t.Fatal("default config should not pace requests")
	}
}

func TestRetryableStatus(t *testing.T) {
	rc := DefaultRetryConfig()

	for _, code := range []int{429, 500, 502, 503, 504} {
		if !rc.RetryableStatus(code) {
			t.Errorf("status %d should be retryable", code)
		}
	}
	for _, code := range []int{200, 400, 401, 404} {
		if rc.RetryableStatus(code) {
			t.Errorf("status %d should not be retryable", code)
		}
	}
}

func TestCalculateBackoff_GrowsAndCaps(t *testing.T) {
	rc := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     1 * time.Second,
		BackoffFactor:  2.0,
	}

	// Jitter is ±25%, so check intervals rather than exact values.
	b0 := rc.CalculateBackoff(0)
	if b0 < 75*time.Millisecond || b0 > 125*time.Millisecond {
		t.Errorf("attempt 0 backoff = %v, want ~100ms", b0)
	}

	b2 := rc.CalculateBackoff(2)
	if b2 < 300*time.Millisecond || b2 > 500*time.Millisecond {
		t.Errorf("attempt 2 backoff = %v, want ~400ms", b2)
	}

	if b10 := rc.CalculateBackoff(10); b10 > rc.MaxBackoff {
		t.Errorf("attempt 10 backoff = %v, exceeds cap %v", b10, rc.MaxBackoff)
	}

	if neg := rc.CalculateBackoff(-3); neg > 125*time.Millisecond {
		t.Errorf("negative attempt backoff = %v, want clamped to attempt 0", neg)
	}
}

func TestIsRetryable(t *testing.T) {
	rc := DefaultRetryConfig()

	retryable := []string{
		"API returned status 429: rate limit exceeded",
		"API returned status 503: service unavailable",
		"request failed: connection refused",
		"unexpected EOF",
	}
	for _, msg := range retryable {
		if !rc.isRetryable(errors.New(msg)) {
			t.Errorf("%q should be retryable", msg)
		}
	}

	notRetryable := []string{
		"API returned status 401: invalid api key",
		"failed to unmarshal response: invalid character",
	}
	for _, msg := range notRetryable {
		if rc.isRetryable(errors.New(msg)) {
			t.Errorf("%q should not be retryable", msg)
		}
	}

	if rc.isRetryable(nil) {
		t.Error("nil error should not be retryable")
	}
}

func TestDoWithRetry_RecoversAfterRetryableError(t *testing.T) {
	rc := RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		BackoffFactor:  1,
	}

	attempts := 0
	err := rc.DoWithRetry(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return errors.New("API returned status 503: service unavailable")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected recovery, got error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestDoWithRetry_StopsOnNonRetryableError(t *testing.T) {
	rc := RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		BackoffFactor:  1,
	}

	attempts := 0
	permanent := errors.New("API returned status 401: invalid api key")
	err := rc.DoWithRetry(context.Background(), func() error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDoWithRetry_ExhaustsRetries(t *testing.T) {
	rc := RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		BackoffFactor:  1,
	}

	attempts := 0
	err := rc.DoWithRetry(context.Background(), func() error {
		attempts++
		return errors.New("API returned status 500: internal server error")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoWithRetry_ContextCancelled(t *testing.T) {
	rc := DefaultRetryConfig()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rc.DoWithRetry(ctx, func() error {
		t.Fatal("operation should not run with cancelled context")
		return nil
	})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestSleepWithContext(t *testing.T) {
	if err := SleepWithContext(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SleepWithContext(ctx, time.Second); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
