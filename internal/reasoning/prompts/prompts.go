// Package prompts holds one builder/parser pair per insight type. Builders
// are pure functions over a report context; parsers turn raw model text into
// the typed result structures.
package prompts

import (
	"strings"
	"unicode/utf8"

	"reportgen/internal/report"
)

// criticalStatuses are the status labels that mark a deliverable as needing
// attention.
var criticalStatuses = map[string]bool{
	"Off Track": true,
	"At Risk":   true,
}

// boilerplateRisks are placeholder values that must be treated as "no risk
// reported". Compared case-insensitively after trimming.
var boilerplateRisks = map[string]bool{
	"no risks or issues reported this week": true,
	"none": true,
	"n/a":  true,
	"":     true,
}

// isBoilerplateRisk reports whether the risk text carries no real content.
func isBoilerplateRisk(text string) bool {
	return boilerplateRisks[strings.ToLower(strings.TrimSpace(text))]
}

// deliverableRisk is one (deliverable, status, risk) triple extracted from
// the status groups.
type deliverableRisk struct {
	Deliverable string
	Status      string
	Risk        string
}

// extractRisks collects all non-boilerplate risks across status groups.
func extractRisks(groups []report.StatusGroup) []deliverableRisk {
	var risks []deliverableRisk
	for _, group := range groups {
		for _, item := range group.Items {
			text := strings.TrimSpace(item.GetString("risks_issues"))
			if isBoilerplateRisk(text) {
				continue
			}
			risks = append(risks, deliverableRisk{
				Deliverable: item.Name(),
				Status:      group.Status,
				Risk:        text,
			})
		}
	}
	return risks
}

// truncate shortens text to max runes, appending an ellipsis when cut.
// Cutting on rune boundaries keeps multibyte text valid UTF-8.
func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}
