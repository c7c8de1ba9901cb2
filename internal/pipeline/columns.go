package pipeline

import (
	"regexp"
	"strings"

	"github.com/JonMunkholm/landsplit/internal/table"
)

// separatorRun matches each run of whitespace or slashes in a column label.
// RE2's \s is ASCII only, so Unicode separators (NBSP, em space) and the
// remaining unicode.IsSpace runes are listed explicitly.
var separatorRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}/]+`)

// CanonicalColumn maps a raw column label to its canonical form:
// trimmed, lowercased, with every run of whitespace or "/" replaced by "_".
//
//	" Survey / Number " -> "survey_number"
func CanonicalColumn(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return separatorRun.ReplaceAllString(s, "_")
}

// NormalizeColumns returns a table whose column names are canonical.
//
// When several raw columns collapse to the same canonical name they are
// merged into one column at the position of the first occurrence, and the
// later column's cell overwrites the earlier one row by row, missing or not.
// Without collisions the result shares row storage with t.
func NormalizeColumns(t *table.Table) *table.Table {
	target := make([]int, len(t.Columns))
	pos := make(map[string]int, len(t.Columns))

	out := &table.Table{Columns: make([]string, 0, len(t.Columns))}
	for i, raw := range t.Columns {
		name := CanonicalColumn(raw)
		if p, ok := pos[name]; ok {
			target[i] = p
			continue
		}
		pos[name] = len(out.Columns)
		target[i] = len(out.Columns)
		out.Columns = append(out.Columns, name)
	}

	if len(out.Columns) == len(t.Columns) {
		out.Rows = t.Rows
		return out
	}

	out.Rows = make([]table.Row, len(t.Rows))
	for r, row := range t.Rows {
		merged := make(table.Row, len(out.Columns))
		for c, v := range row {
			if c >= len(target) {
				break
			}
			merged[target[c]] = v
		}
		out.Rows[r] = merged
	}
	return out
}
