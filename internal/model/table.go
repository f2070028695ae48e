package model

// RawTable is the format-independent result of reading a statement file.
// The first file row becomes Headers; everything after it becomes Rows.
// Rows may be shorter than Headers (missing trailing cells read as "").
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at (row, col), or "" when the row is short.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// HeaderIndex returns the column index of header, or -1.
func (t *RawTable) HeaderIndex(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}
