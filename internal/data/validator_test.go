package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHappyPath(t *testing.T) {
	rows := []Row{
		{"Name": "Alpha", "Status": "On Track"},
		{"Name": "Beta", "Status": "At Risk"},
	}
	v := Validate(rows, []string{"Name", "Status"})
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	assert.Empty(t, v.Warnings)
	assert.NotEmpty(t, v.Info)
}

func TestValidateMissingColumnWarnsButStaysValid(t *testing.T) {
	rows := []Row{{"Name": "Alpha"}}
	v := Validate(rows, []string{"Name", "Status"})
	// Templates render placeholders for absent columns, so a missing
	// expected column is advisory, not fatal.
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	assert.Contains(t, v.Warnings[0], "missing expected columns: Status")
}

func TestValidateNoColumns(t *testing.T) {
	v := Validate([]Row{{}}, []string{"Name"})
	assert.False(t, v.Valid)
	assert.Contains(t, v.Errors[0], "no columns")
}

func TestValidateInconsistentRowsWarn(t *testing.T) {
	rows := []Row{
		{"Name": "Alpha", "Status": "On Track"},
		{"Name": "Beta"},
		{"Name": "Gamma", "Status": "At Risk"},
	}
	v := Validate(rows, []string{"Name", "Status"})
	assert.True(t, v.Valid)
	found := false
	for _, w := range v.Warnings {
		if w == "rows with inconsistent columns: 2" {
			found = true
		}
	}
	assert.True(t, found, "expected inconsistent-row warning, got %v", v.Warnings)
}

func TestValidateNoRows(t *testing.T) {
	v := Validate(nil, []string{"Name"})
	assert.False(t, v.Valid)
	assert.Contains(t, v.Errors[0], "no data rows")
}

func TestValidateEmptyValuesAreNotErrors(t *testing.T) {
	rows := []Row{
		{"Name": "Alpha", "Status": ""},
		{"Name": "Beta", "Status": ""},
	}
	v := Validate(rows, []string{"Name", "Status"})
	// Structure-only validation: empty cells warn, never fail.
	assert.True(t, v.Valid)
	assert.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "Status")
}

func TestValidatePartiallyEmptyColumnIsInfo(t *testing.T) {
	rows := []Row{
		{"Name": "Alpha", "Status": "On Track"},
		{"Name": "Beta", "Status": ""},
	}
	v := Validate(rows, []string{"Name", "Status"})
	assert.True(t, v.Valid)
	assert.Empty(t, v.Warnings)
}
