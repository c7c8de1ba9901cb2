package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords(t *testing.T) {
	tbl := FromRecords([][]any{
		{"State", "Village", "Survey Number"},
		{"Karnataka", "Hosur", 12.0},
		{"Maharashtra", "  "},
		{"", nil, ""},
		{},
	})

	assert.Equal(t, []string{"State", "Village", "Survey Number"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, Row{"Karnataka", "Hosur", 12.0}, tbl.Rows[0])
	assert.Equal(t, Row{"Maharashtra", nil, nil}, tbl.Rows[1])
}

func TestFromRecords_Empty(t *testing.T) {
	tbl := FromRecords(nil)
	assert.Empty(t, tbl.Columns)
	assert.Equal(t, 0, tbl.Len())
}

func TestFromRecords_KeepsInteriorBlankRows(t *testing.T) {
	tbl := FromRecords([][]any{
		{"state"},
		{"karnataka"},
		{""},
		{"maharashtra"},
	})
	require.Equal(t, 3, tbl.Len())
	assert.Nil(t, tbl.Rows[1][0])
}

func TestIndexAndCell(t *testing.T) {
	tbl := &Table{
		Columns: []string{"a", "b", "c"},
		Rows:    []Row{{"x"}},
	}

	assert.Equal(t, 1, tbl.Index("b"))
	assert.Equal(t, -1, tbl.Index("z"))
	assert.True(t, tbl.Has("c"))
	assert.Equal(t, "x", tbl.Cell(0, 0))
	assert.Nil(t, tbl.Cell(0, 2), "sparse row reads as missing")
	assert.Nil(t, tbl.Cell(0, -1))
}

func TestView_SharesRows(t *testing.T) {
	tbl := &Table{
		Columns: []string{"a"},
		Rows:    []Row{{"r0"}, {"r1"}, {"r2"}},
	}

	v := tbl.View([]int{2, 0})
	require.Equal(t, 2, v.Len())
	assert.Equal(t, "r2", v.Rows[0][0])
	assert.Equal(t, "r0", v.Rows[1][0])

	tbl.Rows[0][0] = "changed"
	assert.Equal(t, "changed", v.Rows[1][0])
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Karnataka", "Karnataka"},
		{12.0, "12"},
		{3.25, "3.25"},
		{int64(572910), "572910"},
		{7, "7"},
		{true, "true"},
		{float32(1.5), "1.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CellString(tt.in), "CellString(%#v)", tt.in)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   any
		wantOK bool
	}{
		{"42", int64(42), true},
		{" -7 ", int64(-7), true},
		{"0.875", 0.875, true},
		{"1e3", 1000.0, true},
		{"NaN", nil, false},
		{"abc", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ParseNumber(%q) ok", tt.in)
		assert.Equal(t, tt.want, got, "ParseNumber(%q)", tt.in)
	}
}

func TestParseBool(t *testing.T) {
	v, ok := ParseBool("TRUE")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = ParseBool("false")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = ParseBool("maybe")
	assert.False(t, ok)
}
