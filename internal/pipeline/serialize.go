package pipeline

import (
	"bytes"
	"encoding/json"

	"github.com/JonMunkholm/landsplit/internal/table"
)

// Record is one serialized row. Keys keep the table's column order, which a
// Go map cannot, so Record carries its own JSON encoding.
type Record struct {
	Keys   []string
	Values []any
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for i, k := range r.Keys {
		if k == key {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the record as an unordered map.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Keys))
	for i, k := range r.Keys {
		m[k] = r.Values[i]
	}
	return m
}

// MarshalJSON encodes the record as a JSON object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, k, r.Values[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Serialize converts t into one Record per row, in row order. Missing cells
// become "". The result is never nil so an empty bucket encodes as [].
func Serialize(t *table.Table) []Record {
	records := make([]Record, len(t.Rows))
	for r := range t.Rows {
		values := make([]any, len(t.Columns))
		for c := range t.Columns {
			v := t.Cell(r, c)
			if v == nil {
				v = ""
			}
			values[c] = v
		}
		records[r] = Record{Keys: t.Columns, Values: values}
	}
	return records
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}
