package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// Middleware decorates a Provider to inject cross-cutting concerns
// (logging, caching, rate limiting).
type Middleware func(Provider) Provider

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Provider, mws ...Middleware) Provider {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Logging --------

// WithLogging logs request size and errors through the given logger.
func WithLogging(logger zerolog.Logger) Middleware {
	return func(next Provider) Provider {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Provider
	log  zerolog.Logger
}

func (l *logging) Model() string          { return l.next.Model() }
func (l *logging) TokenUsage() TokenUsage { return l.next.TokenUsage() }
func (l *logging) ResetTokenUsage()       { l.next.ResetTokenUsage() }
func (l *logging) Close() error           { return l.next.Close() }

func (l *logging) Generate(ctx context.Context, req Request) (string, error) {
	l.log.Debug().
		Str("model", l.next.Model()).
		Int("prompt_bytes", len(req.Prompt)+len(req.SystemPrompt)).
		Int("max_tokens", req.MaxTokens).
		Msg("llm request")
	text, err := l.next.Generate(ctx, req)
	if err != nil {
		l.log.Warn().Err(err).Str("model", l.next.Model()).Msg("llm error")
	}
	return text, err
}

// -------- Response cache --------

// WithCache memoizes successful responses in an LRU keyed by the full
// request. Cache hits skip the backend entirely, so they add nothing to
// the provider's token counters.
func WithCache(size int) Middleware {
	if size <= 0 {
		size = 128
	}
	return func(next Provider) Provider {
		cache, err := lru.New[string, string](size)
		if err != nil {
			return next
		}
		return &cached{next: next, cache: cache}
	}
}

type cached struct {
	next  Provider
	cache *lru.Cache[string, string]
}

func (c *cached) Model() string          { return c.next.Model() }
func (c *cached) TokenUsage() TokenUsage { return c.next.TokenUsage() }
func (c *cached) ResetTokenUsage()       { c.next.ResetTokenUsage() }
func (c *cached) Close() error           { return c.next.Close() }

func (c *cached) Generate(ctx context.Context, req Request) (string, error) {
	key := cacheKey(c.next.Model(), req)
	if text, ok := c.cache.Get(key); ok {
		return text, nil
	}
	text, err := c.next.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, text)
	return text, nil
}

func cacheKey(model string, req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\x00%g", model, req.Prompt, req.SystemPrompt, req.MaxTokens, req.Temperature)
	return hex.EncodeToString(h.Sum(nil))
}

// -------- Rate limiting --------

// RateLimit throttles Generate calls with a token-bucket limiter. If
// rps <= 0, the limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Provider) Provider {
		rl := newRPSLimiter(rps, burst) // nil when disabled
		return &rateLimited{next: next, rl: rl}
	}
}

type rateLimited struct {
	next Provider
	rl   *rpsLimiter
}

func (r *rateLimited) Model() string          { return r.next.Model() }
func (r *rateLimited) TokenUsage() TokenUsage { return r.next.TokenUsage() }
func (r *rateLimited) ResetTokenUsage()       { r.next.ResetTokenUsage() }
func (r *rateLimited) Close() error           { return r.next.Close() }

func (r *rateLimited) Generate(ctx context.Context, req Request) (string, error) {
	if err := r.rl.Acquire(ctx); err != nil {
		return "", err
	}
	return r.next.Generate(ctx, req)
}
