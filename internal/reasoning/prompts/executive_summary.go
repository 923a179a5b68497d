package prompts

import (
	"fmt"
	"strings"

	"reportgen/internal/report"
)

// ExecutiveSummarySystemPrompt frames the model as a program-status briefer.
const ExecutiveSummarySystemPrompt = "You are an AI assistant helping a technical program manager " +
	"understand program status. Be concise, specific, and decision-oriented."

// BuildExecutiveSummaryPrompt asks for a 2-3 sentence executive summary.
// Unlike the other builders it always yields a prompt: a degenerate context
// still produces a valid "no data" briefing request.
func BuildExecutiveSummaryPrompt(ctx report.Context) string {
	var b strings.Builder

	b.WriteString("You are analyzing a weekly program status report for a technical program manager.\n\n")
	b.WriteString("## Report Metadata\n")
	fmt.Fprintf(&b, "- Report Date: %s\n", ctx.ReportDate())
	fmt.Fprintf(&b, "- Total Deliverables: %d\n\n", ctx.TotalDeliverables())

	groups := ctx.StatusGroups()
	b.WriteString("## Status Breakdown\n")
	b.WriteString(formatStatusBreakdown(groups))
	b.WriteString("\n\n")

	b.WriteString("## Critical Items (Off Track / At Risk)\n")
	b.WriteString(formatCriticalItems(groups))
	b.WriteString("\n\n")

	b.WriteString("## Reported Risks and Issues\n")
	b.WriteString(formatRisksSummary(groups))
	b.WriteString("\n\n")

	b.WriteString(`## Task
Generate a concise executive summary (2-3 sentences) that:

1. **States overall program health** - Is the program on track, at risk, or facing major issues?
2. **Highlights the most critical item** - What single issue requires immediate attention?
3. **Identifies any emerging patterns** - Are there themes across multiple deliverables (e.g., resource constraints, dependency delays)?

## Guidelines
- Be specific and decision-oriented (not generic)
- Focus on actionable insights, not just facts
- Use concrete examples from the data
- Avoid phrases like "the report shows" or "according to the data"
- Write in present tense, as if briefing an executive right now

## Output Format
Return ONLY the executive summary text (2-3 sentences). No preamble, explanation, or formatting.`)

	return b.String()
}

func formatStatusBreakdown(groups []report.StatusGroup) string {
	if len(groups) == 0 {
		return "  (No status information available)"
	}
	lines := make([]string, 0, len(groups))
	for _, group := range groups {
		n := len(group.Items)
		plural := "s"
		if n == 1 {
			plural = ""
		}
		lines = append(lines, fmt.Sprintf("  - %s: %d deliverable%s", group.Status, n, plural))
	}
	return strings.Join(lines, "\n")
}

func formatCriticalItems(groups []report.StatusGroup) string {
	var items []string
	for _, group := range groups {
		if !criticalStatuses[group.Status] {
			continue
		}
		for _, item := range group.Items {
			desc := fmt.Sprintf("- [%s] %s", group.Status, item.Name())
			if priority := item.GetString("priority"); priority != "" {
				desc += fmt.Sprintf(" (Priority: %s)", priority)
			}
			if risks := strings.TrimSpace(item.GetString("risks_issues")); risks != "" {
				desc += "\n  Risk: " + truncate(risks, 150)
			}
			items = append(items, desc)
		}
	}
	if len(items) == 0 {
		return "  (No critical items - all deliverables on track or complete)"
	}
	return strings.Join(items, "\n")
}

func formatRisksSummary(groups []report.StatusGroup) string {
	risks := extractRisks(groups)
	if len(risks) == 0 {
		return "  (No risks or issues reported)"
	}
	lines := make([]string, 0, len(risks))
	for _, r := range risks {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Deliverable, r.Risk))
	}
	return strings.Join(lines, "\n")
}

// summaryPreambles are throat-clearing phrases some models prepend despite
// instructions; they are stripped before measuring the summary.
var summaryPreambles = []string{
	"Here is the executive summary:",
	"Executive Summary:",
	"Summary:",
}

// ParseExecutiveSummary cleans the model's text and computes shape metadata.
func ParseExecutiveSummary(response string) (string, report.SummaryMetadata) {
	summary := strings.TrimSpace(response)
	for _, preamble := range summaryPreambles {
		if strings.HasPrefix(summary, preamble) {
			summary = strings.TrimSpace(summary[len(preamble):])
		}
	}
	meta := report.SummaryMetadata{
		Length: len(summary),
		SentenceCount: strings.Count(summary, ".") +
			strings.Count(summary, "!") +
			strings.Count(summary, "?"),
	}
	return summary, meta
}
