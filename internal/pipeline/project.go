package pipeline

import "github.com/JonMunkholm/landsplit/internal/table"

// Project reshapes t onto template: the result has exactly the template's
// columns in template order. Template columns absent from t are missing in
// every row; columns of t not named by the template are dropped. t is never
// modified.
func Project(t *table.Table, template []string) *table.Table {
	src := make([]int, len(template))
	for i, col := range template {
		src[i] = t.Index(col)
	}

	out := table.New(template...)
	out.Rows = make([]table.Row, len(t.Rows))
	for r := range t.Rows {
		row := make(table.Row, len(template))
		for i, c := range src {
			if c >= 0 {
				row[i] = t.Cell(r, c)
			}
		}
		out.Rows[r] = row
	}
	return out
}
