// Package tabular provides an ordered table model over CSV text: row 0 is
// the header, every other row is a sequence of string cells aligned to the
// header by index. Rows may be ragged; accessors tolerate short rows.
package tabular

// Table holds parsed CSV content. Rows[0] is the header when present.
type Table struct {
	Rows [][]string
}

// Header returns the header row, or nil for an empty table.
func (t *Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// ColumnIndex resolves a column by exact, case-sensitive header match.
// When several headers carry the same name the first wins. The second
// return value is false if the column is absent.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header() {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// Cell returns the cell at (row, col), or "" when the row is shorter than
// col or the indices are out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// SetCell writes the cell at (row, col), padding a ragged row with empty
// cells up to col. Out-of-range rows are ignored.
func (t *Table) SetCell(row, col int, value string) {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return
	}
	r := t.Rows[row]
	for len(r) <= col {
		r = append(r, "")
	}
	r[col] = value
	t.Rows[row] = r
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{Rows: make([][]string, len(t.Rows))}
	for i, r := range t.Rows {
		c.Rows[i] = append([]string(nil), r...)
	}
	return c
}
