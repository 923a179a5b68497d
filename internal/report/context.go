// Package report defines the shared report context passed between the
// data pipeline, the reasoning layer, and the renderers.
package report

// Deliverable is one tracked unit of work from the source export. Rows keep
// their heterogeneous shape; accessors below handle missing or mistyped
// fields defensively.
type Deliverable map[string]any

// GetString returns the string value for key, or "" when absent or not a
// string.
func (d Deliverable) GetString(key string) string {
	if d == nil {
		return ""
	}
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Name returns the deliverable's display name, or "Unknown" when missing.
func (d Deliverable) Name() string {
	if name := d.GetString("deliverable"); name != "" {
		return name
	}
	return "Unknown"
}

// StatusGroup buckets deliverables under one status label. Groups are kept
// in display priority order, so []StatusGroup is ordered.
type StatusGroup struct {
	Status string
	Items  []Deliverable
}

// Context is the caller-owned report context. The reasoning layer reads the
// conventional keys below and writes exactly one key, "synthesis"; it never
// mutates a Context in place.
type Context map[string]any

// Conventional context keys.
const (
	KeyStatusGroups      = "status_groups"
	KeyDeliverables      = "deliverables"
	KeyTotalDeliverables = "total_deliverables"
	KeyReportDate        = "report_date"
	KeySynthesis         = "synthesis"
)

// StatusGroups returns the ordered status groups, or nil when absent.
func (c Context) StatusGroups() []StatusGroup {
	if c == nil {
		return nil
	}
	if v, ok := c[KeyStatusGroups].([]StatusGroup); ok {
		return v
	}
	return nil
}

// Deliverables returns the flat deliverable list, or nil when absent.
func (c Context) Deliverables() []Deliverable {
	if c == nil {
		return nil
	}
	if v, ok := c[KeyDeliverables].([]Deliverable); ok {
		return v
	}
	return nil
}

// TotalDeliverables returns the deliverable count, or 0 when absent.
func (c Context) TotalDeliverables() int {
	if c == nil {
		return 0
	}
	switch v := c[KeyTotalDeliverables].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// ReportDate returns the report date string, or "Unknown" when absent.
func (c Context) ReportDate() string {
	if c != nil {
		if v, ok := c[KeyReportDate].(string); ok && v != "" {
			return v
		}
	}
	return "Unknown"
}

// Synthesis returns the attached synthesis record, or nil when none.
func (c Context) Synthesis() *Synthesis {
	if c == nil {
		return nil
	}
	if v, ok := c[KeySynthesis].(*Synthesis); ok {
		return v
	}
	return nil
}

// WithSynthesis returns a new Context carrying all keys of c plus the
// synthesis record. The receiver is left unmodified.
func (c Context) WithSynthesis(s *Synthesis) Context {
	out := make(Context, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	out[KeySynthesis] = s
	return out
}
