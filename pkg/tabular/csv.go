// Lenient RFC4180 CSV parsing and serialization.
package tabular

import "strings"

// Parse reads CSV text into a Table. Quoted fields may contain commas and
// newlines; a doubled quote inside a quoted field is one literal quote; a
// bare "\n" or "\r\n" ends a row; a trailing partial row or field at end
// of input is still emitted.
//
// Parse never fails. An unterminated quote absorbs the rest of the input
// as literal field content, and a quote appearing mid-field is kept as a
// literal character. This mirrors the tolerant readers the master and
// target files were historically processed with; callers that need strict
// CSV validation must do it themselves.
func Parse(text string) *Table {
	t := &Table{}
	if text == "" {
		return t
	}

	var (
		field    strings.Builder
		row      []string
		inQuotes bool
		quoted   bool // current field was opened with a quote
	)

	endRow := func() {
		row = append(row, field.String())
		field.Reset()
		quoted = false
		t.Rows = append(t.Rows, row)
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			if field.Len() == 0 && !quoted {
				inQuotes = true
				quoted = true
			} else {
				// Mid-field quote, kept literally.
				field.WriteByte(c)
			}
		case ',':
			row = append(row, field.String())
			field.Reset()
			quoted = false
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		case '\n':
			endRow()
		default:
			field.WriteByte(c)
		}
	}

	// Flush a trailing partial row. A quote still open here means the
	// input ended inside a quoted field; its content stands as-is.
	if field.Len() > 0 || len(row) > 0 || quoted {
		endRow()
	}

	return t
}

// Serialize writes a Table back to CSV text, the inverse of Parse. Fields
// containing a comma, quote, carriage return, or newline are wrapped in
// quotes with internal quotes doubled. Rows are joined by "\n" with no
// trailing newline.
func Serialize(t *Table) string {
	var b strings.Builder
	for i, row := range t.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			writeField(&b, cell)
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, cell string) {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		b.WriteString(cell)
		return
	}
	b.WriteByte('"')
	for i := 0; i < len(cell); i++ {
		if cell[i] == '"' {
			b.WriteByte('"')
		}
		b.WriteByte(cell[i])
	}
	b.WriteByte('"')
}
