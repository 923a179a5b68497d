package render

import (
	"strings"
	"unicode/utf8"

	"reportgen/internal/report"
)

// partnerTextLimit caps risk text shown to external readers.
const partnerTextLimit = 200

// PartnerRenderer produces an external-safe view. Lead names, internal
// systems, and sensitive risk details never reach this output.
type PartnerRenderer struct{}

// NewPartnerRenderer returns the renderer for external partners.
func NewPartnerRenderer() *PartnerRenderer { return &PartnerRenderer{} }

func (r *PartnerRenderer) Name() string { return "Partner" }

func (r *PartnerRenderer) TransformContext(rc report.Context) report.Context {
	out := copyContext(rc)
	out["view_type"] = "partner"
	out["show_technical_details"] = false
	out["external_view"] = true

	summary := make(map[string]int)
	for _, group := range rc.StatusGroups() {
		summary[group.Status] = len(group.Items)
	}
	out["status_summary"] = summary

	items := rc.Deliverables()
	sanitized := make([]report.Deliverable, 0, len(items))
	for _, item := range items {
		sanitized = append(sanitized, sanitizeDeliverable(item))
	}
	out["deliverables_sanitized"] = sanitized

	if syn := rc.Synthesis(); syn != nil {
		out[report.KeySynthesis] = sanitizeSynthesis(syn)
	}
	return out
}

func (r *PartnerRenderer) Render(rc report.Context) (string, error) {
	return execute(r, "partner.html", rc)
}

// sanitizeDeliverable strips internal detail from a deliverable. Lead
// names are replaced wholesale.
func sanitizeDeliverable(d report.Deliverable) report.Deliverable {
	return report.Deliverable{
		"deliverable":  d.GetString("deliverable"),
		"status":       d.GetString("status"),
		"lead":         "Internal Team",
		"risks_issues": sanitizeText(d.GetString("risks_issues")),
	}
}

func sanitizeText(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, "none") || strings.EqualFold(trimmed, "n/a") {
		return "No issues reported"
	}
	if utf8.RuneCountInString(trimmed) > partnerTextLimit {
		runes := []rune(trimmed)
		return string(runes[:partnerTextLimit]) + "..."
	}
	return trimmed
}

// sanitizeSynthesis keeps the executive summary and low/medium severity
// risk themes only. Critical risks and anomalies are too sensitive for
// an external view.
func sanitizeSynthesis(syn *report.Synthesis) *report.Synthesis {
	out := *syn
	if syn.RiskAnalysis != nil {
		themes := make([]report.Theme, 0, len(syn.RiskAnalysis.Themes))
		for _, theme := range syn.RiskAnalysis.Themes {
			if !strings.EqualFold(theme.Severity, "high") {
				themes = append(themes, theme)
			}
		}
		out.RiskAnalysis = &report.RiskAnalysis{
			Themes:        themes,
			CriticalRisks: []report.CriticalRisk{},
			Anomalies:     []report.Anomaly{},
		}
	}
	return &out
}
