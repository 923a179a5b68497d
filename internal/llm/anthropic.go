package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	anthropicDefaultModel = "claude-sonnet-4-5-20250929"
	anthropicBaseURL      = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"

	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// AnthropicClient calls the Anthropic Messages API over plain HTTP.
//
// Environment variables:
//
//	ANTHROPIC_API_KEY  required credential (unless passed explicitly)
//	ANTHROPIC_MODEL    optional model override
type AnthropicClient struct {
	http       *http.Client
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
	retryDelay time.Duration

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(time.Duration)

	usage usageCounter
}

// AnthropicOption adjusts client construction.
type AnthropicOption func(*AnthropicClient)

// WithAnthropicModel overrides the model id.
func WithAnthropicModel(model string) AnthropicOption {
	return func(c *AnthropicClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithAnthropicBaseURL points the client at a different endpoint.
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(c *AnthropicClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithAnthropicMaxRetries overrides the retry attempt count.
func WithAnthropicMaxRetries(n int) AnthropicOption {
	return func(c *AnthropicClient) {
		if n >= 1 {
			c.maxRetries = n
		}
	}
}

// NewAnthropicClient creates an Anthropic backend. If apiKey is empty, the
// ANTHROPIC_API_KEY env var is used; a missing credential fails here rather
// than on first use.
func NewAnthropicClient(apiKey string, opts ...AnthropicOption) (*AnthropicClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, &ConfigurationError{
			Reason: "anthropic API key is required: set ANTHROPIC_API_KEY or pass an explicit key",
		}
	}

	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = anthropicDefaultModel
	}

	c := &AnthropicClient{
		http:       &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		model:      model,
		baseURL:    anthropicBaseURL,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *AnthropicClient) Model() string          { return c.model }
func (c *AnthropicClient) TokenUsage() TokenUsage { return c.usage.usage() }
func (c *AnthropicClient) ResetTokenUsage()       { c.usage.reset() }
func (c *AnthropicClient) Close() error           { return nil }

type anthropicReq struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResp struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

// Generate sends one user message and returns the model's text. Transient
// backend failures are retried with exponential backoff; token counters are
// updated from the response usage before returning.
func (c *AnthropicClient) Generate(ctx context.Context, req Request) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(c.retryDelay * time.Duration(1<<(attempt-1)))
		}
		text, err := c.doRequest(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
	}
	return "", &ProviderError{Attempts: c.maxRetries, Err: lastErr}
}

func (c *AnthropicClient) doRequest(ctx context.Context, req Request) (string, error) {
	body := anthropicReq{
		Model:       c.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		const max = 2048
		if len(body) > max {
			body = body[:max]
		}
		return "", fmt.Errorf("anthropic: unexpected status %s: %s", resp.Status, string(body))
	}

	var out anthropicResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Content) == 0 || out.Content[0].Text == "" {
		return "", ErrEmptyResponse
	}

	c.usage.add(out.Usage.InputTokens, out.Usage.OutputTokens)
	return out.Content[0].Text, nil
}
