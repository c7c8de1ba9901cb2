// Package table defines the in-memory tabular model shared by the ingestion
// adapters and the normalization pipeline.
//
// A Table is an ordered column list plus positional rows. Cells are plain
// scalars (string, float64, int64, bool) or nil when the cell is missing.
// Rows may be shorter than the column list; trailing cells are then missing.
package table

import "strings"

// Row is a single record positioned against Table.Columns.
type Row []any

// Table is an ordered sequence of rows sharing one column set.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates a table with the given header and no rows.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// FromRecords builds a table from a raw grid where the first record is the
// header. Blank cells become missing. Fully blank rows at the end of the grid
// are dropped since spreadsheet exports routinely pad them.
func FromRecords(records [][]any) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	header := records[0]
	t := &Table{Columns: make([]string, len(header))}
	for i, h := range header {
		t.Columns[i] = CellString(h)
	}

	body := records[1:]
	for len(body) > 0 && isBlankRow(body[len(body)-1]) {
		body = body[:len(body)-1]
	}

	t.Rows = make([]Row, 0, len(body))
	for _, rec := range body {
		row := make(Row, len(t.Columns))
		for i := range row {
			if i < len(rec) {
				row[i] = cleanCell(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Index returns the position of the named column, or -1 if absent.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Has reports whether the table contains the named column.
func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Cell returns the value at row r, column position c. Out-of-range positions
// on sparse rows read as missing.
func (t *Table) Cell(r, c int) any {
	row := t.Rows[r]
	if c < 0 || c >= len(row) {
		return nil
	}
	return row[c]
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// View returns a table over the same column slice holding only the selected
// rows. Row storage is shared with t; callers must not mutate the rows of a
// view if t is still in use.
func (t *Table) View(rows []int) *Table {
	v := &Table{Columns: t.Columns, Rows: make([]Row, len(rows))}
	for i, r := range rows {
		v.Rows[i] = t.Rows[r]
	}
	return v
}

// CellString renders a cell value as text. Missing cells render as "".
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return formatScalar(x)
	}
}

func cleanCell(v any) any {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return v
}

func isBlankRow(rec []any) bool {
	for _, v := range rec {
		if cleanCell(v) != nil {
			return false
		}
	}
	return true
}
