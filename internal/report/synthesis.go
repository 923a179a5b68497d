package report

// SummaryMetadata carries shape metadata about a generated summary.
type SummaryMetadata struct {
	Length        int `json:"length"`
	SentenceCount int `json:"sentence_count"`
}

// Theme is a cross-cutting risk pattern affecting two or more deliverables.
type Theme struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	AffectedDeliverables []string `json:"affected_deliverables"`
	Severity             string   `json:"severity"`
}

// CriticalRisk flags one risk that needs immediate attention.
type CriticalRisk struct {
	Deliverable string `json:"deliverable"`
	Risk        string `json:"risk"`
	Reason      string `json:"reason"`
}

// Anomaly flags a deliverable whose reported risk data looks inconsistent.
type Anomaly struct {
	Deliverable string `json:"deliverable"`
	Issue       string `json:"issue"`
}

// RiskAnalysis is the structured output of the risk-analysis insight.
// ParseError is set instead of failing when the model returned malformed
// JSON; the three slices are always non-nil after parsing.
type RiskAnalysis struct {
	Themes        []Theme        `json:"themes"`
	CriticalRisks []CriticalRisk `json:"critical_risks"`
	Anomalies     []Anomaly      `json:"anomalies"`
	ParseError    string         `json:"parse_error,omitempty"`
}

// Action is one recommended next step for the program manager.
type Action struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Owner               string   `json:"owner"`
	SuccessCriterion    string   `json:"success_criterion"`
	Confidence          string   `json:"confidence"`
	RelatedDeliverables []string `json:"related_deliverables,omitempty"`
}

// ActionList is the validated output of the action-items insight.
type ActionList struct {
	Actions []Action `json:"actions"`
	Count   int      `json:"count"`
}

// Synthesis is the collection of AI-generated insights attached to a report
// context under the "synthesis" key.
//
// For each feature the value pointer and the error string are mutually
// exclusive: a skipped feature leaves both zero, a failed feature leaves the
// pointer nil and the error non-empty, a successful feature sets the pointer.
type Synthesis struct {
	GeneratedAt string `json:"generated_at"`
	Model       string `json:"model"`

	ExecutiveSummary         *string          `json:"executive_summary,omitempty"`
	ExecutiveSummaryMetadata *SummaryMetadata `json:"executive_summary_metadata,omitempty"`
	ExecutiveSummaryError    string           `json:"executive_summary_error,omitempty"`

	RiskAnalysis      *RiskAnalysis `json:"risk_analysis,omitempty"`
	RiskAnalysisError string        `json:"risk_analysis_error,omitempty"`

	ActionItems      *ActionList `json:"action_items,omitempty"`
	ActionItemsError string      `json:"action_items_error,omitempty"`
}
