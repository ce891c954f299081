package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paramify/client-success/pkg/tabular"
)

// ReadFile reads evidence records from a CSV or JSON file, dispatching on
// the file extension.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ParseCSV(string(data)), nil
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported file format %q (supported: .csv, .json)", ext)
	}
}

// ParseCSV reads evidence records from CSV text. The first row names the
// fields; keys are normalized for case-insensitive lookup. A UTF-8 BOM is
// tolerated and rows with no non-empty cell are skipped.
func ParseCSV(text string) []Record {
	text = strings.TrimPrefix(text, "\uFEFF")
	t := tabular.Parse(text)
	header := t.Header()

	var records []Record
	for row := 1; row < len(t.Rows); row++ {
		raw := make(map[string]any, len(header))
		empty := true
		for col := range header {
			cell := t.Cell(row, col)
			if cell != "" {
				empty = false
			}
			raw[header[col]] = cell
		}
		if empty {
			continue
		}
		records = append(records, NormalizeKeys(raw))
	}
	return records
}

// ReadSnapshot reads a previously exported evidence list back into
// Evidence values, keeping IDs, for use as a duplicate-checking baseline.
// Rows that cannot be built into a record (no name) are dropped.
func ReadSnapshot(path string) ([]Evidence, error) {
	records, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	list := make([]Evidence, 0, len(records))
	for _, rec := range records {
		ev, err := rec.Build()
		if err != nil {
			continue
		}
		ev.ID = rec.Field("id")
		list = append(list, ev)
	}
	return list, nil
}

// ParseJSON reads evidence records from JSON: either a single object or an
// array of objects.
func ParseJSON(data []byte) ([]Record, error) {
	var any1 any
	if err := json.Unmarshal(data, &any1); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	switch v := any1.(type) {
	case map[string]any:
		return []Record{NormalizeKeys(v)}, nil
	case []any:
		records := make([]Record, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("JSON array element %d is not an object", i)
			}
			records = append(records, NormalizeKeys(obj))
		}
		return records, nil
	default:
		return nil, fmt.Errorf("JSON file must contain an object or array of objects")
	}
}
