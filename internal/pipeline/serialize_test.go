package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/landsplit/internal/table"
)

func TestSerialize(t *testing.T) {
	in := &table.Table{
		Columns: []string{"state", "survey_number", "confidence_score", "village"},
		Rows: []table.Row{
			{"karnataka", int64(12), 0.91, nil},
			{"karnataka"},
		},
	}

	records := Serialize(in)
	require.Len(t, records, 2)

	assert.Equal(t, in.Columns, records[0].Keys)
	assert.Equal(t, []any{"karnataka", int64(12), 0.91, ""}, records[0].Values)
	assert.Equal(t, []any{"karnataka", "", "", ""}, records[1].Values)
}

func TestSerialize_NoMissingValues(t *testing.T) {
	in := &table.Table{
		Columns: []string{"a", "b", "c"},
		Rows:    []table.Row{{nil, nil, nil}, {}, {"x", nil}},
	}

	for _, rec := range Serialize(in) {
		for _, v := range rec.Values {
			assert.NotNil(t, v)
		}
	}
}

func TestSerialize_EmptyTable(t *testing.T) {
	records := Serialize(&table.Table{Columns: []string{"a"}})
	require.NotNil(t, records)

	b, err := json.Marshal(records)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestRecord_MarshalJSON_KeepsColumnOrder(t *testing.T) {
	rec := Record{
		Keys:   []string{"state", "district", "id"},
		Values: []any{"karnataka", "", int64(7)},
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"state":"karnataka","district":"","id":7}`, string(b))
}

func TestRecord_GetAndMap(t *testing.T) {
	rec := Record{Keys: []string{"a", "b"}, Values: []any{1, "x"}}

	v, ok := rec.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = rec.Get("z")
	assert.False(t, ok)

	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, rec.Map())
}
