// Package render turns a built report context into audience-specific
// HTML. Each audience gets its own context filtering and template:
// executives see critical items only, the technical view shows
// everything, and the partner view is sanitized for external readers.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"reportgen/internal/report"
)

//go:embed templates/*.html
var templatesFS embed.FS

// AudienceRenderer filters a report context for one audience and
// renders it to HTML.
type AudienceRenderer interface {
	// Name is the human-readable audience name.
	Name() string
	// TransformContext filters or reshapes the context for this
	// audience. The input context is not modified.
	TransformContext(rc report.Context) report.Context
	// Render transforms the context and executes the audience template.
	Render(rc report.Context) (string, error)
}

// ForAudience returns the renderer for an audience name. Empty defaults
// to the technical view.
func ForAudience(name string) (AudienceRenderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "technical":
		return NewTechnicalRenderer(), nil
	case "executive":
		return NewExecutiveRenderer(), nil
	case "partner":
		return NewPartnerRenderer(), nil
	default:
		return nil, fmt.Errorf("render: unknown audience %q: expected executive, technical, or partner", name)
	}
}

var funcMap = template.FuncMap{
	// Cell values carrying <br> tags were escaped at transform time.
	"safe": func(s string) template.HTML { return template.HTML(s) },
	"field": func(d report.Deliverable, key string) string {
		return d.GetString(key)
	},
	"orEmpty": func(value, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return value
	},
}

var templates = template.Must(
	template.New("render").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"),
)

// execute transforms the context with the given renderer and runs its
// template over the result.
func execute(r AudienceRenderer, templateName string, rc report.Context) (string, error) {
	transformed := r.TransformContext(rc)
	transformed["audience"] = r.Name()

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, templateName, transformed); err != nil {
		return "", fmt.Errorf("render: execute %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// copyContext shallow-copies a report context so renderers never mutate
// the caller's map.
func copyContext(rc report.Context) report.Context {
	out := make(report.Context, len(rc)+4)
	for k, v := range rc {
		out[k] = v
	}
	return out
}
