package llm

import (
	"context"
	"sync"
	"time"
)

// rpsLimiter paces Generate calls to at most rps requests per second with
// a small burst allowance. It tracks fractional tokens under a mutex and
// sleeps callers until their reservation accrues, so there is no refill
// goroutine to shut down.
type rpsLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	burst    float64
	tokens   float64
	last     time.Time
}

// newRPSLimiter returns a limiter for the given rate, or nil when rps <= 0
// (a nil limiter admits everything).
func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &rpsLimiter{
		interval: time.Duration(float64(time.Second) / rps),
		burst:    float64(burst),
		tokens:   float64(burst),
		last:     time.Now(),
	}
}

// Acquire blocks until a token is available or ctx is done. A canceled
// wait returns its reservation so other callers are not starved.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	l.tokens += float64(now.Sub(l.last)) / float64(l.interval)
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.last = now

	if l.tokens >= 1 {
		l.tokens--
		l.mu.Unlock()
		return nil
	}

	wait := time.Duration((1 - l.tokens) * float64(l.interval))
	l.tokens--
	l.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		l.mu.Lock()
		l.tokens++
		l.mu.Unlock()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
