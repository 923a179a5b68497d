package data

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Validation is the structural check result for a loaded export. Errors
// block report generation; warnings and info are advisory.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Info     []string `json:"info"`
}

// Validate checks rows against the expected column set. It only inspects
// structure, not cell contents, and it only fails for catastrophic input:
// no rows at all, or rows with no columns. Missing expected columns and
// inconsistent rows are warnings; templates render placeholders for
// anything absent.
func Validate(rows []Row, expectedColumns []string) Validation {
	v := Validation{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
		Info:     []string{},
	}

	if len(rows) == 0 {
		v.Valid = false
		v.Errors = append(v.Errors, "no data rows found")
		return v
	}
	if len(rows[0]) == 0 {
		v.Valid = false
		v.Errors = append(v.Errors, "data rows have no columns")
		return v
	}
	v.Info = append(v.Info, fmt.Sprintf("loaded %d rows", len(rows)))

	present := make(map[string]bool, len(rows[0]))
	for col := range rows[0] {
		present[col] = true
	}

	var missing []string
	for _, col := range expectedColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		v.Warnings = append(v.Warnings, fmt.Sprintf("missing expected columns: %s", strings.Join(missing, ", ")))
		v.Info = append(v.Info, "report will show placeholders for missing columns")
	}

	if inconsistent := inconsistentRows(rows); len(inconsistent) > 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("rows with inconsistent columns: %s", joinInts(inconsistent)))
	}

	for _, col := range expectedColumns {
		if !present[col] {
			continue
		}
		empty := 0
		for _, row := range rows {
			if row[col] == "" {
				empty++
			}
		}
		if empty == len(rows) {
			v.Warnings = append(v.Warnings, fmt.Sprintf("column %q is empty in every row", col))
		} else if empty > 0 {
			v.Info = append(v.Info, fmt.Sprintf("column %q is empty in %d of %d rows", col, empty, len(rows)))
		}
	}
	return v
}

// inconsistentRows returns the 1-based indexes of rows whose column set
// differs from the first row's.
func inconsistentRows(rows []Row) []int {
	var out []int
	first := rows[0]
	for i, row := range rows[1:] {
		if !sameColumns(first, row) {
			out = append(out, i+2)
		}
	}
	return out
}

func sameColumns(a, b Row) bool {
	if len(a) != len(b) {
		return false
	}
	for col := range a {
		if _, ok := b[col]; !ok {
			return false
		}
	}
	return true
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
