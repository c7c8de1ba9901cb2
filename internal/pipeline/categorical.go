package pipeline

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/JonMunkholm/landsplit/internal/table"
)

// CategoryValue canonicalizes a classification cell: the value is rendered as
// text, composed to NFC so visually identical names compare equal, trimmed,
// and lowercased. Missing cells become "".
func CategoryValue(v any) string {
	s := norm.NFC.String(table.CellString(v))
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeCategory rewrites the named column in place so every cell holds its
// CategoryValue. It returns a *MissingColumnError when the column is absent.
func NormalizeCategory(t *table.Table, column string) error {
	idx := t.Index(column)
	if idx < 0 {
		return &MissingColumnError{Column: column, Available: t.Columns}
	}

	for r, row := range t.Rows {
		if idx >= len(row) {
			// Sparse rows that end before the column still read as "".
			grown := make(table.Row, len(t.Columns))
			copy(grown, row)
			t.Rows[r] = grown
			row = grown
		}
		row[idx] = CategoryValue(row[idx])
	}
	return nil
}
