package mapping

import (
	"strings"

	"github.com/paramify/client-success/pkg/tabular"
)

// ChangeRecord describes one target row that gained mappings.
type ChangeRecord struct {
	// Row is the 1-based data row index, header excluded.
	Row int `json:"row"`
	// Capability is the capability name as it appeared in the target cell.
	Capability string `json:"capability"`
	// Added is the number of mappings merged into the row.
	Added int `json:"added"`
}

// Report summarizes one reconciliation pass. Given the same inputs the
// same Report is produced; ordering follows the target's own row order.
type Report struct {
	RowsUpdated   int            `json:"rows_updated"`
	MappingsAdded int            `json:"mappings_added"`
	Changes       []ChangeRecord `json:"changes"`
	// Unresolved lists capability keys present in the target but absent
	// from every lookup, deduplicated in first-seen order.
	Unresolved []string `json:"unresolved"`
}

// Reconcile walks every data row of target in order, resolves its
// capability against the lookups (probed in order, first hit wins), and
// merges any mappings the master has that the row lacks. The target is
// mutated in place and only in the mapping column: a changed cell becomes
// the sorted union of its old content and the missing mappings, joined by
// newlines. Existing mappings are never removed. Rows with a blank
// capability cell are skipped; rows resolving in no lookup are reported
// as unresolved and left untouched.
func Reconcile(target *tabular.Table, lookups []Lookup, capabilityColumn, mappingColumn string) (*Report, error) {
	capIdx, ok := target.ColumnIndex(capabilityColumn)
	if !ok {
		return nil, &ColumnNotFoundError{Column: capabilityColumn, Headers: target.Header()}
	}
	mapIdx, ok := target.ColumnIndex(mappingColumn)
	if !ok {
		return nil, &ColumnNotFoundError{Column: mappingColumn, Headers: target.Header()}
	}

	report := &Report{}
	seen := map[string]bool{}

	for row := 1; row < len(target.Rows); row++ {
		raw := target.Cell(row, capIdx)
		if strings.TrimSpace(raw) == "" {
			continue
		}

		key := CapabilityKey(raw)
		master, ok := Resolve(lookups, key)
		if !ok {
			if !seen[key] {
				seen[key] = true
				report.Unresolved = append(report.Unresolved, key)
			}
			continue
		}

		current := ParseMappings(target.Cell(row, mapIdx))
		missing := master.Minus(current)
		if len(missing) == 0 {
			continue
		}

		current.Union(missing)
		target.SetCell(row, mapIdx, FormatMappings(current))

		report.Changes = append(report.Changes, ChangeRecord{
			Row:        row,
			Capability: raw,
			Added:      len(missing),
		})
		report.RowsUpdated++
		report.MappingsAdded += len(missing)
	}

	return report, nil
}
