package data

import (
	"html"
	"strings"
	"time"
)

// FieldFunc rewrites a single cell value during transformation.
type FieldFunc func(string) string

// Transformer maps source columns onto internal field names and applies
// optional per-field rewrites along the way.
type Transformer struct {
	fieldMappings map[string]string
	fieldFuncs    map[string]FieldFunc
}

// NewTransformer builds a Transformer. fieldMappings maps source column
// name to internal field name; fieldFuncs is keyed by the internal name.
func NewTransformer(fieldMappings map[string]string, fieldFuncs map[string]FieldFunc) *Transformer {
	if fieldFuncs == nil {
		fieldFuncs = map[string]FieldFunc{}
	}
	return &Transformer{fieldMappings: fieldMappings, fieldFuncs: fieldFuncs}
}

// Transform converts loaded rows into records keyed by internal field
// names. Source columns without a mapping are dropped; mapped columns
// missing from a row become empty strings.
func (t *Transformer) Transform(rows []Row) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]any, len(t.fieldMappings))
		for src, dst := range t.fieldMappings {
			val := strings.TrimSpace(row[src])
			if fn, ok := t.fieldFuncs[dst]; ok {
				val = fn(val)
			}
			record[dst] = val
		}
		out = append(out, record)
	}
	return out
}

// FormatDate rewrites MM/DD/YYYY dates as "Jan 02, 2006". Values it
// cannot parse pass through unchanged.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	t, err := time.Parse("1/2/2006", value)
	if err != nil {
		return value
	}
	return t.Format("Jan 02, 2006")
}

// SplitMultiValueNames normalizes a delimited list of names into a
// deduplicated comma-separated string. Handles comma and semicolon
// separators.
func SplitMultiValueNames(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})
	seen := make(map[string]bool, len(parts))
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		names = append(names, p)
	}
	return strings.Join(names, ", ")
}

// PreserveLineBreaks escapes HTML and turns newlines into <br> tags so
// multi-line cell values survive HTML rendering.
func PreserveLineBreaks(value string) string {
	if value == "" {
		return ""
	}
	escaped := html.EscapeString(value)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br>")
}
