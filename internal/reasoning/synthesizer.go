// Package reasoning orchestrates LLM insight generation over structured
// report data: executive summaries, risk analysis, and action items.
package reasoning

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"reportgen/internal/llm"
	"reportgen/internal/reasoning/prompts"
	"reportgen/internal/report"
)

// Feature names accepted by Synthesize.
const (
	FeatureExecutiveSummary = "executive_summary"
	FeatureRiskAnalysis     = "risk_analysis"
	FeatureActionItems      = "action_items"
)

// DefaultFeatures returns the feature set used when the caller passes nil.
func DefaultFeatures() map[string]bool {
	return map[string]bool{
		FeatureExecutiveSummary: true,
		FeatureRiskAnalysis:     true,
		FeatureActionItems:      false,
	}
}

const defaultSynthMaxTokens = 500

// Synthesizer drives the prompt builders and one provider to produce a
// synthesis record. It is the error-containment boundary: a feature
// failing records an error in the synthesis and never aborts the others.
type Synthesizer struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
	log         zerolog.Logger
}

// NewSynthesizer creates a synthesizer around the provider. maxTokens <= 0
// falls back to a small default suitable for summaries.
func NewSynthesizer(provider llm.Provider, maxTokens int, temperature float64) *Synthesizer {
	if maxTokens <= 0 {
		maxTokens = defaultSynthMaxTokens
	}
	return &Synthesizer{
		provider:    provider,
		maxTokens:   maxTokens,
		temperature: temperature,
		log:         zerolog.Nop(),
	}
}

// WithLogger attaches a logger for per-feature diagnostics.
func (s *Synthesizer) WithLogger(log zerolog.Logger) *Synthesizer {
	s.log = log
	return s
}

// Synthesize generates the enabled insights and returns a new context that
// is the input plus a "synthesis" key. The input context is never mutated.
//
// A nil features map means DefaultFeatures; an empty map disables
// everything (the synthesis record then carries only timestamp and model).
// Each feature runs independently: a builder returning no prompt skips the
// feature entirely, and any error is recorded as the feature's error field
// without stopping the remaining features.
func (s *Synthesizer) Synthesize(ctx context.Context, rc report.Context, features map[string]bool) report.Context {
	if features == nil {
		features = DefaultFeatures()
	}

	model := s.provider.Model()
	if model == "" {
		model = "unknown"
	}
	syn := &report.Synthesis{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Model:       model,
	}

	if features[FeatureExecutiveSummary] {
		summary, meta, err := s.generateExecutiveSummary(ctx, rc)
		if err != nil {
			s.log.Warn().Err(err).Str("feature", FeatureExecutiveSummary).Msg("insight failed")
			syn.ExecutiveSummaryError = err.Error()
		} else {
			syn.ExecutiveSummary = &summary
			syn.ExecutiveSummaryMetadata = &meta
		}
	}

	if features[FeatureRiskAnalysis] {
		analysis, skipped, err := s.analyzeRisks(ctx, rc)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("feature", FeatureRiskAnalysis).Msg("insight failed")
			syn.RiskAnalysisError = err.Error()
		case !skipped:
			syn.RiskAnalysis = analysis
		}
	}

	if features[FeatureActionItems] {
		actions, skipped, err := s.generateActionItems(ctx, rc)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("feature", FeatureActionItems).Msg("insight failed")
			syn.ActionItemsError = err.Error()
		case !skipped:
			syn.ActionItems = actions
		}
	}

	return rc.WithSynthesis(syn)
}

func (s *Synthesizer) generateExecutiveSummary(ctx context.Context, rc report.Context) (string, report.SummaryMetadata, error) {
	prompt := prompts.BuildExecutiveSummaryPrompt(rc)
	response, err := s.provider.Generate(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: prompts.ExecutiveSummarySystemPrompt,
		MaxTokens:    s.maxTokens,
		Temperature:  s.temperature,
	})
	if err != nil {
		return "", report.SummaryMetadata{}, err
	}
	summary, meta := prompts.ParseExecutiveSummary(response)
	return summary, meta, nil
}

func (s *Synthesizer) analyzeRisks(ctx context.Context, rc report.Context) (*report.RiskAnalysis, bool, error) {
	prompt, ok := prompts.BuildRiskAnalysisPrompt(rc)
	if !ok {
		return nil, true, nil
	}
	response, err := s.provider.Generate(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: prompts.RiskAnalysisSystemPrompt,
		MaxTokens:    s.maxTokens,
		Temperature:  s.temperature,
	})
	if err != nil {
		return nil, false, err
	}
	return prompts.ParseRiskAnalysis(response), false, nil
}

func (s *Synthesizer) generateActionItems(ctx context.Context, rc report.Context) (*report.ActionList, bool, error) {
	prompt, ok := prompts.BuildActionItemsPrompt(rc)
	if !ok {
		return nil, true, nil
	}
	response, err := s.provider.Generate(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: prompts.ActionItemsSystemPrompt,
		MaxTokens:    s.maxTokens,
		Temperature:  s.temperature,
	})
	if err != nil {
		return nil, false, err
	}
	actions, err := prompts.ParseActionItems(response)
	if err != nil {
		return nil, false, err
	}
	return actions, false, nil
}

// TokenUsage reports the held provider's cumulative usage.
func (s *Synthesizer) TokenUsage() llm.TokenUsage { return s.provider.TokenUsage() }

// ResetTokenUsage zeroes the held provider's counters.
func (s *Synthesizer) ResetTokenUsage() { s.provider.ResetTokenUsage() }
