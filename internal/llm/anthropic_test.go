package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestAnthropic(t *testing.T, url string) *AnthropicClient {
	t.Helper()
	c, err := NewAnthropicClient("test-key", WithAnthropicBaseURL(url))
	if err != nil {
		t.Fatalf("NewAnthropicClient: %v", err)
	}
	c.sleep = func(time.Duration) {}
	return c
}

func anthropicBody(text string, in, out int64) map[string]any {
	return map[string]any{
		"content": []map[string]any{{"type": "text", "text": text}},
		"usage":   map[string]any{"input_tokens": in, "output_tokens": out},
	}
}

func TestAnthropicGenerate(t *testing.T) {
	var gotReq anthropicReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(anthropicBody("generated text", 50, 25))
	}))
	defer srv.Close()

	c := newTestAnthropic(t, srv.URL)
	text, err := c.Generate(context.Background(), Request{
		Prompt:       "summarize this",
		SystemPrompt: "you are a helper",
		MaxTokens:    256,
		Temperature:  0.3,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "generated text" {
		t.Fatalf("text = %q", text)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "summarize this" {
		t.Fatalf("request messages = %+v", gotReq.Messages)
	}
	if gotReq.System != "you are a helper" || gotReq.MaxTokens != 256 {
		t.Fatalf("request = %+v", gotReq)
	}

	usage := c.TokenUsage()
	if usage.InputTokens != 50 || usage.OutputTokens != 25 {
		t.Fatalf("usage = %+v, want 50/25", usage)
	}
}

func TestAnthropicInvalidArgumentSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestAnthropic(t, srv.URL)
	_, err := c.Generate(context.Background(), Request{Prompt: "", MaxTokens: 100})

	var inv *InvalidArgumentError
	if !errors.As(err, &inv) {
		t.Fatalf("expected *InvalidArgumentError, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("backend was called %d times for an invalid request", calls.Load())
	}
}

func TestAnthropicRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(anthropicBody("third time lucky", 10, 5))
	}))
	defer srv.Close()

	var slept []time.Duration
	c := newTestAnthropic(t, srv.URL)
	c.sleep = func(d time.Duration) { slept = append(slept, d) }

	text, err := c.Generate(context.Background(), Request{Prompt: "hi", MaxTokens: 10})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "third time lucky" {
		t.Fatalf("text = %q", text)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
	// Exponential backoff: 1s before the second attempt, 2s before the third.
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(slept) != len(want) || slept[0] != want[0] || slept[1] != want[1] {
		t.Fatalf("backoff = %v, want %v", slept, want)
	}
}

func TestAnthropicRetriesExhausted(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestAnthropic(t, srv.URL)
	_, err := c.Generate(context.Background(), Request{Prompt: "hi", MaxTokens: 10})

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if pe.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", pe.Attempts)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestAnthropicEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	}))
	defer srv.Close()

	c := newTestAnthropic(t, srv.URL)
	_, err := c.Generate(context.Background(), Request{Prompt: "hi", MaxTokens: 10})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse in chain, got %v", err)
	}
}

func TestAnthropicUsageAccumulatesAcrossCalls(t *testing.T) {
	responses := []struct{ in, out int64 }{{50, 25}, {75, 30}}
	var call atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := call.Add(1) - 1
		json.NewEncoder(w).Encode(anthropicBody("ok", responses[i].in, responses[i].out))
	}))
	defer srv.Close()

	c := newTestAnthropic(t, srv.URL)
	for range responses {
		if _, err := c.Generate(context.Background(), Request{Prompt: "hi", MaxTokens: 10}); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}

	usage := c.TokenUsage()
	if usage.InputTokens != 125 || usage.OutputTokens != 55 {
		t.Fatalf("usage = %+v, want 125/55", usage)
	}

	c.ResetTokenUsage()
	if usage := c.TokenUsage(); usage.InputTokens != 0 || usage.OutputTokens != 0 {
		t.Fatalf("usage after reset = %+v", usage)
	}
}

func TestAnthropicFailedCallsLeaveUsageUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestAnthropic(t, srv.URL)
	c.Generate(context.Background(), Request{Prompt: "hi", MaxTokens: 10})

	if usage := c.TokenUsage(); usage.InputTokens != 0 || usage.OutputTokens != 0 {
		t.Fatalf("usage after failed call = %+v, want zeroes", usage)
	}
}

func TestNewAnthropicClientRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewAnthropicClient("")
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigurationError, got %v", err)
	}
}

func TestNewAnthropicClientModelOverride(t *testing.T) {
	t.Setenv("ANTHROPIC_MODEL", "claude-test-model")
	c, err := NewAnthropicClient("key")
	if err != nil {
		t.Fatalf("NewAnthropicClient: %v", err)
	}
	if c.Model() != "claude-test-model" {
		t.Fatalf("model = %q", c.Model())
	}
}
