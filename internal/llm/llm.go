// Package llm defines the text-generation provider contract and its
// concrete backends. Backends own authentication, retries, and token
// accounting; cross-cutting concerns (logging, caching, rate limiting)
// are applied via Middleware.
package llm

import (
	"context"
	"strings"
	"sync/atomic"
)

// Request carries the parameters of one generation call.
type Request struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

// TokenUsage holds cumulative token counters for one provider instance.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Provider is the capability contract backends implement.
type Provider interface {
	// Generate produces text for the request. It validates arguments before
	// any network call and retries transient backend failures with
	// exponential backoff; exhausted retries surface as *ProviderError.
	Generate(ctx context.Context, req Request) (string, error)

	// Model reports the backend's model identifier, best effort.
	Model() string

	// TokenUsage returns the running cumulative totals. It never resets
	// implicitly.
	TokenUsage() TokenUsage

	// ResetTokenUsage zeroes both counters. In-flight requests are not
	// affected.
	ResetTokenUsage()

	Close() error
}

// validateRequest enforces the argument contract shared by all backends.
func validateRequest(req Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return &InvalidArgumentError{Reason: "prompt cannot be empty"}
	}
	if req.MaxTokens <= 0 {
		return &InvalidArgumentError{Reason: "max_tokens must be positive"}
	}
	if req.Temperature < 0.0 || req.Temperature > 1.0 {
		return &InvalidArgumentError{Reason: "temperature must be between 0.0 and 1.0"}
	}
	return nil
}

// usageCounter tracks cumulative token usage with atomic counters so
// concurrent Generate calls never lose increments.
type usageCounter struct {
	input  atomic.Int64
	output atomic.Int64
}

func (u *usageCounter) add(input, output int64) {
	u.input.Add(input)
	u.output.Add(output)
}

func (u *usageCounter) usage() TokenUsage {
	return TokenUsage{
		InputTokens:  u.input.Load(),
		OutputTokens: u.output.Load(),
	}
}

func (u *usageCounter) reset() {
	u.input.Store(0)
	u.output.Store(0)
}
