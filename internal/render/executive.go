package render

import "reportgen/internal/report"

// criticalStatuses are the statuses an executive reader acts on.
var criticalStatuses = map[string]bool{
	"Off Track": true,
	"At Risk":   true,
}

// ExecutiveRenderer produces a high-level, decision-focused view. Only
// deliverables needing attention are shown item by item; the rest are
// rolled up into a count.
type ExecutiveRenderer struct{}

// NewExecutiveRenderer returns the renderer for executive stakeholders.
func NewExecutiveRenderer() *ExecutiveRenderer { return &ExecutiveRenderer{} }

func (r *ExecutiveRenderer) Name() string { return "Executive" }

func (r *ExecutiveRenderer) TransformContext(rc report.Context) report.Context {
	out := copyContext(rc)
	out["view_type"] = "executive"
	out["show_technical_details"] = false

	var critical []report.StatusGroup
	onTrack := 0
	for _, group := range rc.StatusGroups() {
		if criticalStatuses[group.Status] {
			critical = append(critical, group)
		} else {
			onTrack += len(group.Items)
		}
	}
	out["status_groups_filtered"] = critical
	out["on_track_count"] = onTrack

	if syn := rc.Synthesis(); syn != nil {
		out["has_synthesis"] = true
	}
	return out
}

func (r *ExecutiveRenderer) Render(rc report.Context) (string, error) {
	return execute(r, "executive.html", rc)
}
