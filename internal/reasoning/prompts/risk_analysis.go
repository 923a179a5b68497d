package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"reportgen/internal/report"
)

// RiskAnalysisSystemPrompt frames the model as a risk analyst that must
// return JSON.
const RiskAnalysisSystemPrompt = "You are an AI assistant analyzing program risks. " +
	"Return valid JSON only. Be concise and specific."

// BuildRiskAnalysisPrompt asks for cross-cutting themes, severity ratings,
// and anomaly flags over all reported risks. Returns ok=false when the
// context carries no non-boilerplate risks, in which case no model call
// should be made.
func BuildRiskAnalysisPrompt(ctx report.Context) (string, bool) {
	risks := extractRisks(ctx.StatusGroups())
	if len(risks) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("You are analyzing risks and issues from a weekly program status report.\n\n")
	b.WriteString("## All Reported Risks and Issues\n\n")
	for _, r := range risks {
		fmt.Fprintf(&b, "**%s** (%s)\n", r.Deliverable, r.Status)
		fmt.Fprintf(&b, "Risk: %s\n\n", r.Risk)
	}

	b.WriteString(`## Task

Analyze these risks and provide:

1. **Cross-Cutting Themes** (2-4 themes max)
   - Identify patterns that appear across multiple deliverables
   - Examples: "resource constraints", "dependency delays", "unclear requirements"
   - Only report themes that appear in 2+ deliverables

2. **Severity Assessment**
   - Which risks are most critical?
   - Which require immediate action?

3. **Anomalies** (if any)
   - Deliverables with vague/unclear risk descriptions
   - Risks that seem mismatched with status (e.g., "On Track" with major risks)
   - Missing risk information where expected

## Output Format

Return ONLY valid JSON with this structure:
{
  "themes": [
    {
      "name": "Theme name (2-4 words)",
      "description": "Brief explanation (1 sentence)",
      "affected_deliverables": ["Deliverable 1", "Deliverable 2"],
      "severity": "high|medium|low"
    }
  ],
  "critical_risks": [
    {
      "deliverable": "Deliverable name",
      "risk": "Risk description",
      "reason": "Why this is critical"
    }
  ],
  "anomalies": [
    {
      "deliverable": "Deliverable name",
      "issue": "Description of anomaly"
    }
  ]
}

If no themes/anomalies found, use empty arrays. Be concise and specific.`)

	return b.String(), true
}

// ParseRiskAnalysis decodes the model's JSON. It never fails: malformed
// JSON yields empty arrays plus a ParseError message, and absent array keys
// are back-filled so callers can range over them unconditionally.
func ParseRiskAnalysis(response string) *report.RiskAnalysis {
	var out report.RiskAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &out); err != nil {
		return &report.RiskAnalysis{
			Themes:        []report.Theme{},
			CriticalRisks: []report.CriticalRisk{},
			Anomalies:     []report.Anomaly{},
			ParseError:    err.Error(),
		}
	}
	if out.Themes == nil {
		out.Themes = []report.Theme{}
	}
	if out.CriticalRisks == nil {
		out.CriticalRisks = []report.CriticalRisk{}
	}
	if out.Anomalies == nil {
		out.Anomalies = []report.Anomaly{}
	}
	return &out
}
