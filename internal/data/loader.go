// Package data loads and validates tabular status-report exports and maps
// their columns onto internal field names.
package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Row is one record keyed by the header's column names.
type Row map[string]string

// validExtensions covers the common export formats.
var validExtensions = map[string]bool{".csv": true, ".tsv": true, ".txt": true}

// minColumns is a sanity floor: realistic report exports carry at least a
// few columns, so fewer usually means the wrong delimiter was used.
const minColumns = 3

// Load reads a CSV or TSV file into rows keyed by header column.
// .tsv files are read tab-separated; for .csv and .txt the delimiter is
// sniffed from the header line. A UTF-8 BOM is stripped when present.
func Load(path string) ([]Row, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("data: file not found: %s", path)
		}
		return nil, fmt.Errorf("data: read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !validExtensions[ext] {
		return nil, fmt.Errorf("data: invalid file type %q: expected a .csv, .tsv, or .txt export", ext)
	}

	text := strings.TrimPrefix(string(raw), "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("data: file is empty: %s", path)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text, ext)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("data: file is malformed: %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("data: file contains no data rows: %s", path)
	}

	header := records[0]
	if len(header) < minColumns {
		return nil, fmt.Errorf("data: file appears to be malformed: expected at least %d columns, found %d (check the delimiter)",
			minColumns, len(header))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// detectDelimiter picks tab for .tsv and otherwise prefers whichever of
// tab/comma dominates the header line.
func detectDelimiter(text, ext string) rune {
	if ext == ".tsv" {
		return '\t'
	}
	header := text
	if idx := strings.IndexByte(header, '\n'); idx >= 0 {
		header = header[:idx]
	}
	if strings.Count(header, "\t") > strings.Count(header, ",") {
		return '\t'
	}
	return ','
}
