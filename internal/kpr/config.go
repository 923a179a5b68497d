// Package kpr assembles the weekly Key Priorities Report from a tabular
// export. Other report types get their own packages with their own
// grouping and display rules.
package kpr

import "reportgen/internal/data"

// FieldMappings maps source column names onto internal field names.
var FieldMappings = map[string]string{
	"L4 Deliverables":    "deliverable",
	"L4 Priority":        "priority",
	"Initiatives (L3)":   "initiative",
	"Deliverable Status": "status",
	"Event Phase":        "event_phase",
	"Delivery Date":      "delivery_date",
	"Key Achievements":   "key_achievements",
	"Risks & Issues":     "risks_issues",
}

// LeadMappings maps lead columns onto role display names.
var LeadMappings = map[string]string{
	"Product Workstream Lead":     "Product",
	"Engineering Workstream Lead": "Engineering",
	"Program Workstream Lead":     "Program",
	"Design Workstream Lead":      "Design",
	"QA Workstream Lead":          "QA",
}

// StatusStyle drives status group ordering and coloring in templates.
type StatusStyle struct {
	Display string
	Color   string
	Order   int
}

// unknownStatusOrder sorts statuses without configuration after every
// configured one.
const unknownStatusOrder = 999

// StatusConfig orders status groups most-urgent first.
var StatusConfig = map[string]StatusStyle{
	"Off Track": {Display: "Off Track", Color: "#dc3545", Order: 1},
	"At Risk":   {Display: "At Risk", Color: "#ffc107", Order: 2},
	"On Track":  {Display: "On Track", Color: "#28a745", Order: 3},
	"Complete":  {Display: "Complete", Color: "#6c757d", Order: 4},
}

// PriorityStyle holds badge colors for a priority level.
type PriorityStyle struct {
	Display    string
	BadgeColor string
	TextColor  string
}

// PriorityStyles maps priority labels to their badge styling.
var PriorityStyles = map[string]PriorityStyle{
	"P0": {Display: "P0", BadgeColor: "#dc3545", TextColor: "#ffffff"},
	"P1": {Display: "P1", BadgeColor: "#fd7e14", TextColor: "#ffffff"},
	"P2": {Display: "P2", BadgeColor: "#ffc107", TextColor: "#000000"},
	"P3": {Display: "P3", BadgeColor: "#6c757d", TextColor: "#ffffff"},
}

// BrandColors holds the organization palette used by the templates.
var BrandColors = map[string]string{
	"primary":    "#00338D",
	"secondary":  "#FFD100",
	"text":       "#1a1a1a",
	"background": "#ffffff",
	"border":     "#e0e0e0",
}

// EmptyStates supplies template fallbacks for missing fields.
var EmptyStates = map[string]string{
	"deliverable":      "(No deliverable name provided)",
	"delivery_date":    "TBD",
	"key_achievements": "No achievements reported this week",
	"risks_issues":     "No risks or issues reported this week",
}

// RoleDisplayOrder fixes the lead role layout across templates.
var RoleDisplayOrder = []string{"Program", "Product", "Engineering", "Design", "QA"}

// EmailConfig holds the draft email defaults for this report.
type EmailConfig struct {
	To       []string
	Cc       []string
	Subject  string
	FromName string
}

// DefaultEmailConfig is the KPR draft configuration. Subject contains a
// %s placeholder for the report date.
var DefaultEmailConfig = EmailConfig{
	To:       []string{"your-team@example.com"},
	Cc:       []string{},
	Subject:  "Weekly Key Priorities Report - %s",
	FromName: "Report Generator",
}

// ExpectedColumns lists every source column the validator checks for.
func ExpectedColumns() []string {
	cols := make([]string, 0, len(FieldMappings)+len(LeadMappings))
	for col := range FieldMappings {
		cols = append(cols, col)
	}
	for col := range LeadMappings {
		cols = append(cols, col)
	}
	return cols
}

// leadFieldPrefix marks temporary lead fields produced during
// transformation; they are restructured into a leads map afterwards.
const leadFieldPrefix = "_lead_"

// TransformerConfig returns the field mappings and per-field rewrites
// for the KPR transformer. Lead columns map to temporary prefixed
// fields that CleanRecord folds into a structured leads entry.
func TransformerConfig() (map[string]string, map[string]data.FieldFunc) {
	mappings := make(map[string]string, len(FieldMappings)+len(LeadMappings))
	for src, dst := range FieldMappings {
		mappings[src] = dst
	}
	for src, role := range LeadMappings {
		mappings[src] = leadFieldPrefix + lowerRole(role)
	}
	funcs := map[string]data.FieldFunc{
		"delivery_date":    data.FormatDate,
		"key_achievements": data.PreserveLineBreaks,
		"risks_issues":     data.PreserveLineBreaks,
	}
	return mappings, funcs
}
