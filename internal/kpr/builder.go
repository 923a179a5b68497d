package kpr

import (
	"sort"
	"strings"
	"time"

	"reportgen/internal/data"
	"reportgen/internal/report"
)

// ReportTitle is the display title for the KPR report.
const ReportTitle = "Weekly Key Priorities Report"

// lowerRole normalizes a role name for temporary field keys.
func lowerRole(role string) string {
	return strings.ToLower(role)
}

// CleanRecord folds the temporary lead fields of a transformed record
// into a structured leads map keyed by role name.
func CleanRecord(record map[string]any) report.Deliverable {
	leads := make(map[string]string, len(LeadMappings))
	for _, role := range LeadMappings {
		key := leadFieldPrefix + lowerRole(role)
		val, _ := record[key].(string)
		// Lead cells often carry several names.
		leads[role] = data.SplitMultiValueNames(val)
	}

	cleaned := make(report.Deliverable, len(record))
	for k, v := range record {
		if strings.HasPrefix(k, leadFieldPrefix) {
			continue
		}
		cleaned[k] = v
	}
	cleaned["leads"] = leads
	return cleaned
}

// Builder assembles transformed KPR deliverables into a render-ready
// report context: grouped by status, most-urgent groups first.
type Builder struct{}

// NewBuilder returns a KPR report builder.
func NewBuilder() *Builder { return &Builder{} }

// BuildStatusGroups groups deliverables by status and orders the groups
// by StatusConfig. Unknown statuses sort last; ties keep a stable
// alphabetical order.
func (b *Builder) BuildStatusGroups(items []report.Deliverable) []report.StatusGroup {
	byStatus := make(map[string][]report.Deliverable)
	for _, item := range items {
		status := strings.TrimSpace(item.GetString("status"))
		byStatus[status] = append(byStatus[status], item)
	}

	groups := make([]report.StatusGroup, 0, len(byStatus))
	for status, members := range byStatus {
		groups = append(groups, report.StatusGroup{Status: status, Items: members})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		oi, oj := statusOrder(groups[i].Status), statusOrder(groups[j].Status)
		if oi != oj {
			return oi < oj
		}
		return groups[i].Status < groups[j].Status
	})
	return groups
}

func statusOrder(status string) int {
	if cfg, ok := StatusConfig[status]; ok {
		return cfg.Order
	}
	return unknownStatusOrder
}

// BuildContext builds the full template context for the KPR report.
func (b *Builder) BuildContext(items []report.Deliverable) report.Context {
	return report.Context{
		report.KeyStatusGroups:      b.BuildStatusGroups(items),
		report.KeyDeliverables:      items,
		report.KeyTotalDeliverables: len(items),
		report.KeyReportDate:        time.Now().Format("January 02, 2006"),
		"report_title":              ReportTitle,
		"brand_colors":              BrandColors,
		"priority_styles":           PriorityStyles,
		"status_config":             StatusConfig,
		"empty_states":              EmptyStates,
		"role_display_order":        RoleDisplayOrder,
	}
}
