package model

import (
	"strconv"
)

// Table is a generic in-memory tabular snapshot: a header row plus string
// cells. The trainer and the batch scorer work on tables rather than typed
// rows so unknown caller columns survive a score-and-append round trip.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of name in the header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether name appears in the header.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Float parses the cell at (row, col) as a float64. Empty or unparseable
// cells read as 0, matching the fill-missing-with-zero policy used before
// fitting and scoring.
func (t *Table) Float(row, col int) float64 {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return 0
	}
	v, err := strconv.ParseFloat(t.Rows[row][col], 64)
	if err != nil {
		return 0
	}
	return v
}

// FeatureRow extracts the model input columns of one row in schema order,
// with missing cells as 0. Column positions are passed in so the lookup is
// done once per table, not once per row.
func (t *Table) FeatureRow(row int, cols []int) []float64 {
	out := make([]float64, len(cols))
	for j, c := range cols {
		out[j] = t.Float(row, c)
	}
	return out
}

// WithColumn returns a copy of t with an extra column appended and its cells
// filled from values. The receiver is not modified.
func (t *Table) WithColumn(name string, values []string) *Table {
	out := &Table{
		Columns: append(append([]string(nil), t.Columns...), name),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		cell := ""
		if i < len(values) {
			cell = values[i]
		}
		out.Rows[i] = append(append([]string(nil), row...), cell)
	}
	return out
}

// FormatFloat renders a float cell the way all tables in this system do.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
