package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/landsplit/internal/table"
)

func TestProject(t *testing.T) {
	in := &table.Table{
		Columns: []string{"village", "state", "extra"},
		Rows: []table.Row{
			{"Hosur", "karnataka", "drop me"},
			{"Mandya", "karnataka"},
		},
	}
	template := []string{"state", "district", "village"}

	out := Project(in, template)

	assert.Equal(t, template, out.Columns)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, table.Row{"karnataka", nil, "Hosur"}, out.Rows[0])
	assert.Equal(t, table.Row{"karnataka", nil, "Mandya"}, out.Rows[1])
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	in := &table.Table{
		Columns: []string{"a", "b"},
		Rows:    []table.Row{{1, 2}},
	}

	out := Project(in, []string{"b", "z"})
	out.Rows[0][0] = "changed"
	out.Columns[0] = "renamed"

	assert.Equal(t, []string{"a", "b"}, in.Columns)
	assert.Equal(t, table.Row{1, 2}, in.Rows[0])
}

func TestProject_TemplateIsCopied(t *testing.T) {
	template := []string{"a"}
	out := Project(&table.Table{Columns: []string{"a"}}, template)
	out.Columns[0] = "x"
	assert.Equal(t, "a", template[0])
}

func TestProject_ColumnsAlwaysEqualTemplate(t *testing.T) {
	template := []string{"state", "survey_number", "geometry_id"}
	inputs := []*table.Table{
		{},
		{Columns: []string{"state"}, Rows: []table.Row{{"goa"}}},
		{Columns: []string{"geometry_id", "unrelated", "state", "survey_number"}, Rows: []table.Row{{1, 2, 3, 4}}},
	}

	for _, in := range inputs {
		out := Project(in, template)
		assert.Equal(t, template, out.Columns)
		for _, row := range out.Rows {
			assert.Len(t, row, len(template))
		}
	}
}

func TestProject_EmptyBucketKeepsShape(t *testing.T) {
	out := Project(&table.Table{Columns: []string{"state"}}, []string{"state", "village"})
	assert.Equal(t, []string{"state", "village"}, out.Columns)
	assert.Equal(t, 0, out.Len())
}
