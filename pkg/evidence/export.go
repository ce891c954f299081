package evidence

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paramify/client-success/pkg/tabular"
)

// exportColumns is the fixed column order evidence exports have always
// used; downstream spreadsheets key off these positions.
var exportColumns = []string{
	"name", "referenceId", "description", "instructions", "remarks", "automated", "id",
}

// ExportCSV renders evidence records as CSV text in the standard export
// column order. The automated column is empty for records where it was
// never set.
func ExportCSV(list []Evidence) string {
	t := &tabular.Table{Rows: [][]string{append([]string(nil), exportColumns...)}}
	for _, e := range list {
		automated := ""
		if e.Automated != nil {
			automated = strconv.FormatBool(*e.Automated)
		}
		t.Rows = append(t.Rows, []string{
			e.Name, e.ReferenceID, e.Description, e.Instructions, e.Remarks, automated, e.ID,
		})
	}
	return tabular.Serialize(t)
}

// ExportJSON renders evidence records as an indented JSON array.
func ExportJSON(list []Evidence) ([]byte, error) {
	if list == nil {
		list = []Evidence{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}
	return data, nil
}
