package providers

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces requests one interval apart so long benchmark
// runs stay under a provider's rate limit instead of eating 429s.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time // when the most recently granted slot opens
}

// NewRateLimiter allows maxPerSecond requests per second. Fractional
// rates work (0.1 means one request every ten seconds); non-positive
// rates fall back to one per second.
func NewRateLimiter(maxPerSecond float64) *RateLimiter {
	if maxPerSecond <= 0 {
		maxPerSecond = 1
	}
	return &RateLimiter{interval: time.Duration(float64(time.Second) / maxPerSecond)}
}

// Wait blocks until the next slot opens or ctx ends. Callers queue:
// each reserves the slot one interval after the previous reservation.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	now := time.Now()
	slot := rl.last.Add(rl.interval)
	if rl.last.IsZero() || !slot.After(now) {
		slot = now
	}
	rl.last = slot
	rl.mu.Unlock()

	if delay := time.Until(slot); delay > 0 {
		return SleepWithContext(ctx, delay)
	}
	return nil
}
