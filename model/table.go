package model

// Table is one tabular region detected on a page. Rows hold the cell
// text top to bottom, left to right; every row has the same number of
// cells, with "" where the grid position held no words.
type Table struct {
	// Page is the 1-based page number the table sits on.
	Page int

	// Rows is the cell text grid.
	Rows [][]string

	// BBox covers every word assigned to the table, in top-referenced
	// device units.
	BBox BBox

	// Confidence is the detection score in [0, 1].
	Confidence float64
}

// RowCount returns the number of rows.
func (t Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns, zero for an empty table.
func (t Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}
