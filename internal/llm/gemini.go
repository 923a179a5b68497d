package llm

import (
	"context"
	"os"
	"time"

	genai "google.golang.org/genai"
)

const geminiDefaultModel = "gemini-2.5-flash"

// GeminiClient is a thin wrapper around the official genai client.
//
// Environment variables:
//
//	GEMINI_API_KEY  required credential (unless passed explicitly)
//	GEMINI_MODEL    optional model override
type GeminiClient struct {
	cli        *genai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
	sleep      func(time.Duration)

	usage usageCounter
}

// NewGeminiClient creates a Gemini backend. If apiKey is empty, the
// GEMINI_API_KEY env var is used; a missing credential fails here rather
// than on first use.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, &ConfigurationError{
			Reason: "gemini API key is required: set GEMINI_API_KEY or pass an explicit key",
		}
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = geminiDefaultModel
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		cli:        cli,
		model:      model,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		sleep:      time.Sleep,
	}, nil
}

func (g *GeminiClient) Model() string          { return g.model }
func (g *GeminiClient) TokenUsage() TokenUsage { return g.usage.usage() }
func (g *GeminiClient) ResetTokenUsage()       { g.usage.reset() }
func (g *GeminiClient) Close() error           { return nil }

// Generate sends the prompt and returns the model's text, retrying
// transient API failures with exponential backoff.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	contents := []*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}}

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			g.sleep(g.retryDelay * time.Duration(1<<(attempt-1)))
		}
		resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, cfg)
		if err != nil {
			lastErr = err
		} else if len(resp.Candidates) == 0 ||
			resp.Candidates[0].Content == nil ||
			len(resp.Candidates[0].Content.Parts) == 0 ||
			resp.Candidates[0].Content.Parts[0].Text == "" {
			lastErr = ErrEmptyResponse
		} else {
			if resp.UsageMetadata != nil {
				g.usage.add(
					int64(resp.UsageMetadata.PromptTokenCount),
					int64(resp.UsageMetadata.CandidatesTokenCount),
				)
			}
			return resp.Candidates[0].Content.Parts[0].Text, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
	}
	return "", &ProviderError{Attempts: g.maxRetries, Err: lastErr}
}
