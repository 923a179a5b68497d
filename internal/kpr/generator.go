package kpr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"reportgen/internal/data"
	"reportgen/internal/llm"
	"reportgen/internal/reasoning"
	"reportgen/internal/render"
	"reportgen/internal/report"
)

// Generator runs the full KPR pipeline: load, validate, transform,
// build, synthesize when enabled, render, and optionally save.
type Generator struct {
	builder *Builder
	log     zerolog.Logger
}

// NewGenerator returns a KPR report generator.
func NewGenerator() *Generator {
	return &Generator{builder: NewBuilder(), log: zerolog.Nop()}
}

// WithLogger sets the pipeline logger.
func (g *Generator) WithLogger(log zerolog.Logger) *Generator {
	g.log = log
	return g
}

// Generate produces the KPR HTML report from a tabular export. When
// outputPath is non-empty the HTML is also written there. audience
// selects a renderer ("executive", "technical", "partner"); empty means
// the technical view.
func (g *Generator) Generate(ctx context.Context, csvPath, outputPath, audience string) (string, error) {
	rows, err := data.Load(csvPath)
	if err != nil {
		return "", err
	}
	g.log.Info().Int("rows", len(rows)).Str("file", csvPath).Msg("loaded report data")

	validation := data.Validate(rows, ExpectedColumns())
	for _, w := range validation.Warnings {
		g.log.Warn().Msg(w)
	}
	if !validation.Valid {
		return "", fmt.Errorf("kpr: data validation failed: %s", strings.Join(validation.Errors, "; "))
	}

	mappings, funcs := TransformerConfig()
	transformer := data.NewTransformer(mappings, funcs)
	records := transformer.Transform(rows)

	items := make([]report.Deliverable, 0, len(records))
	for _, record := range records {
		items = append(items, CleanRecord(record))
	}
	g.log.Info().Int("deliverables", len(items)).Msg("transformed report data")

	rc := g.builder.BuildContext(items)
	rc = g.applySynthesis(ctx, rc)

	renderer, err := render.ForAudience(audience)
	if err != nil {
		return "", err
	}
	html, err := renderer.Render(rc)
	if err != nil {
		return "", err
	}
	g.log.Info().Str("audience", renderer.Name()).Int("bytes", len(html)).Msg("rendered report")

	if outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return "", fmt.Errorf("kpr: create output directory: %w", err)
		}
		if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
			return "", fmt.Errorf("kpr: write report: %w", err)
		}
		g.log.Info().Str("path", outputPath).Msg("saved report")
	}
	return html, nil
}

// applySynthesis runs the reasoning layer when it is enabled. A failed
// provider setup degrades to the plain report rather than failing the
// whole pipeline.
func (g *Generator) applySynthesis(ctx context.Context, rc report.Context) report.Context {
	cfg := reasoning.GetConfig()
	if !cfg.IsEnabled() {
		return rc
	}

	inner, err := cfg.NewProvider(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("synthesis unavailable, continuing without insights")
		return rc
	}
	provider := llm.Wrap(inner,
		llm.WithLogging(g.log),
		llm.RateLimit(cfg.RequestsPerSecond, 1),
	)
	defer provider.Close()

	synth := reasoning.NewSynthesizer(provider, cfg.MaxTokens, cfg.Temperature).WithLogger(g.log)
	rc = synth.Synthesize(ctx, rc, map[string]bool{
		reasoning.FeatureExecutiveSummary: true,
		reasoning.FeatureRiskAnalysis:     true,
		reasoning.FeatureActionItems:      true,
	})

	usage := synth.TokenUsage()
	g.log.Info().
		Int64("input_tokens", usage.InputTokens).
		Int64("output_tokens", usage.OutputTokens).
		Msg("synthesis complete")
	return rc
}

// GenerateFromItems renders a report from already-cleaned deliverables.
// Mostly useful in tests and for non-CSV sources.
func (g *Generator) GenerateFromItems(items []report.Deliverable) (string, error) {
	renderer, err := render.ForAudience("")
	if err != nil {
		return "", err
	}
	return renderer.Render(g.builder.BuildContext(items))
}
