package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"reportgen/internal/report"
)

// ActionItemsSystemPrompt frames the model as a chief of staff producing
// concrete recommendations.
const ActionItemsSystemPrompt = "You are an AI Chief of Staff. Return valid JSON only. " +
	"Recommend concrete, high-impact actions."

// ValidationError indicates the model's action-items response failed
// structural validation. Unlike risk-analysis parse failures this is
// surfaced to the caller: action items feed a list consumers may act on
// directly, so malformed structure must be visible.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// BuildActionItemsPrompt requests 3-5 recommendations for the critical
// deliverables. Returns ok=false when no deliverable is Off Track or At
// Risk, in which case no model call should be made.
func BuildActionItemsPrompt(ctx report.Context) (string, bool) {
	var critical []report.Deliverable
	for _, d := range ctx.Deliverables() {
		if criticalStatuses[d.GetString("status")] {
			critical = append(critical, d)
		}
	}
	if len(critical) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("You are an AI Chief of Staff helping a program manager identify concrete next steps.\n\n")
	b.WriteString("## Program Status Overview\n")
	fmt.Fprintf(&b, "Total deliverables: %d\n", ctx.TotalDeliverables())

	if groups := ctx.StatusGroups(); len(groups) > 0 {
		b.WriteString("\nStatus breakdown:\n")
		for _, group := range groups {
			fmt.Fprintf(&b, "  - %s: %d items\n", group.Status, len(group.Items))
		}
	}

	b.WriteString("\n## Critical Deliverables Requiring Attention\n\n")
	for i, item := range critical {
		fmt.Fprintf(&b, "### %d. %s (%s)\n", i+1, item.Name(), item.GetString("status"))
		fmt.Fprintf(&b, "**Lead:** %s\n", orDefault(item.GetString("lead"), "Unassigned"))
		fmt.Fprintf(&b, "**Risks/Issues:** %s\n", orDefault(item.GetString("risks_issues"), "None"))
		fmt.Fprintf(&b, "**Planned Next Steps:** %s\n\n", orDefault(item.GetString("next_steps"), "None"))
	}

	b.WriteString(`## Task

Generate 3-5 concrete, actionable recommendations for the program manager.
Each action should:
1. Be specific and implementable (not vague like 'monitor situation')
2. Include who should do it (use existing leads or suggest 'Program Manager')
3. Address the most critical risks/blockers
4. Have a clear success criterion

Also assign a confidence level (high/medium/low) based on:
- **High**: Action is clearly needed and has obvious next steps
- **Medium**: Action is likely helpful but may need refinement
- **Low**: Action is speculative or requires more investigation

## Output Format

Return ONLY valid JSON with this structure:
` + "```json" + `
{
  "actions": [
    {
      "title": "Short action title (5-10 words)",
      "description": "Detailed description of what needs to be done",
      "owner": "Who should do this (lead name or role)",
      "success_criterion": "How to know when this is complete",
      "confidence": "high|medium|low",
      "related_deliverables": ["Deliverable Name 1", "Deliverable Name 2"]
    }
  ]
}
` + "```" + `

Focus on the highest-impact actions first.`)

	return b.String(), true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// requiredActionFields must all be present on every action object;
// related_deliverables is optional.
var requiredActionFields = []string{"title", "description", "owner", "success_criterion", "confidence"}

var validConfidence = map[string]bool{"high": true, "medium": true, "low": true}

// ParseActionItems validates and decodes the model's action list. Markdown
// code fences around the JSON are tolerated; every structural problem
// (invalid JSON, missing keys, unknown confidence values) fails with a
// *ValidationError.
func ParseActionItems(response string) (*report.ActionList, error) {
	response = stripCodeFence(strings.TrimSpace(response))

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(response), &envelope); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid JSON in action items response: %v", err)}
	}

	rawActions, ok := envelope["actions"]
	if !ok {
		return nil, &ValidationError{Reason: "response missing 'actions' field"}
	}

	// JSON null unmarshals into a nil slice without error; treat it the
	// same as any other non-list value.
	var actionObjects []map[string]json.RawMessage
	if strings.TrimSpace(string(rawActions)) == "null" {
		return nil, &ValidationError{Reason: "'actions' must be a list"}
	}
	if err := json.Unmarshal(rawActions, &actionObjects); err != nil {
		return nil, &ValidationError{Reason: "'actions' must be a list"}
	}

	for idx, obj := range actionObjects {
		for _, field := range requiredActionFields {
			if _, ok := obj[field]; !ok {
				return nil, &ValidationError{Reason: fmt.Sprintf("action %d missing required field: %s", idx, field)}
			}
		}
		var confidence string
		if err := json.Unmarshal(obj["confidence"], &confidence); err != nil || !validConfidence[confidence] {
			return nil, &ValidationError{Reason: fmt.Sprintf("action %d has invalid confidence: %s", idx, string(obj["confidence"]))}
		}
	}

	var actions []report.Action
	if err := json.Unmarshal(rawActions, &actions); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid action items: %v", err)}
	}
	return &report.ActionList{Actions: actions, Count: len(actions)}, nil
}

// stripCodeFence removes surrounding markdown fence lines: the first line
// when it opens a fence, and the last line when it closes one.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
