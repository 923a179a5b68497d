package render

import "reportgen/internal/report"

// TechnicalRenderer produces the most comprehensive view. Everything in
// the context is shown; nothing is filtered.
type TechnicalRenderer struct{}

// NewTechnicalRenderer returns the renderer for technical stakeholders.
func NewTechnicalRenderer() *TechnicalRenderer { return &TechnicalRenderer{} }

func (r *TechnicalRenderer) Name() string { return "Technical" }

func (r *TechnicalRenderer) TransformContext(rc report.Context) report.Context {
	out := copyContext(rc)
	out["view_type"] = "technical"
	out["show_technical_details"] = true
	out["status_groups_filtered"] = rc.StatusGroups()
	return out
}

func (r *TechnicalRenderer) Render(rc report.Context) (string, error) {
	return execute(r, "technical.html", rc)
}
