package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/landsplit/internal/config"
	"github.com/JonMunkholm/landsplit/internal/table"
)

func surveyTable() *table.Table {
	return &table.Table{
		Columns: []string{"state", "village"},
		Rows: []table.Row{
			{"karnataka", "Hosur"},
			{"maharashtra", "Nashik"},
			{"gujarat", "Surat"},
			{"madhya pradesh", "Indore"},
			{"karnataka", "Mandya"},
			{"", "Unknown"},
		},
	}
}

func defaultRegions() []config.RegionDef {
	return []config.RegionDef{
		{Name: "karnataka", Accept: []string{"karnataka"}},
		{Name: "mp_maha", Accept: []string{"Madhya Pradesh", " maharashtra"}},
	}
}

func TestClassify(t *testing.T) {
	tbl := surveyTable()

	buckets, err := Classify(tbl, "state", defaultRegions())
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "karnataka", buckets[0].Name)
	assert.Equal(t, []table.Row{{"karnataka", "Hosur"}, {"karnataka", "Mandya"}}, buckets[0].Table.Rows)

	assert.Equal(t, "mp_maha", buckets[1].Name)
	assert.Equal(t, []table.Row{{"maharashtra", "Nashik"}, {"madhya pradesh", "Indore"}}, buckets[1].Table.Rows,
		"rows keep input order")
}

func TestClassify_MembershipProperty(t *testing.T) {
	tbl := surveyTable()
	regions := defaultRegions()

	buckets, err := Classify(tbl, "state", regions)
	require.NoError(t, err)

	accepted := make(map[string]bool)
	for i, b := range buckets {
		set := newAcceptSet(regions[i].Accept)
		for _, row := range b.Table.Rows {
			_, ok := set[row[0].(string)]
			assert.True(t, ok, "row %v in bucket %s is outside its accepted set", row, b.Name)
		}
		for v := range set {
			accepted[v] = true
		}
	}

	for _, b := range buckets {
		for _, row := range b.Table.Rows {
			assert.True(t, accepted[row[0].(string)])
			assert.NotEqual(t, "gujarat", row[0])
		}
	}
}

func TestClassify_Overlap(t *testing.T) {
	tbl := surveyTable()
	regions := []config.RegionDef{
		{Name: "south", Accept: []string{"karnataka"}},
		{Name: "peninsula", Accept: []string{"karnataka", "maharashtra"}},
	}

	buckets, _, err := classify(tbl, "state", regions)
	require.NoError(t, err)

	assert.Equal(t, 2, buckets[0].Table.Len())
	assert.Equal(t, 3, buckets[1].Table.Len())
	assert.Same(t, &tbl.Rows[0][0], &buckets[0].Table.Rows[0][0], "bucket is a view, not a copy")
	assert.Same(t, &tbl.Rows[0][0], &buckets[1].Table.Rows[0][0])
}

func TestClassify_Unmatched(t *testing.T) {
	_, unmatched, err := classify(surveyTable(), "state", defaultRegions())
	require.NoError(t, err)
	assert.Equal(t, 2, unmatched, "gujarat and blank rows")
}

func TestClassify_EmptyBucket(t *testing.T) {
	buckets, err := Classify(surveyTable(), "state", []config.RegionDef{
		{Name: "kerala", Accept: []string{"kerala"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, buckets[0].Table.Len())
	assert.Equal(t, []string{"state", "village"}, buckets[0].Table.Columns)
}

func TestClassify_MissingColumn(t *testing.T) {
	_, err := Classify(&table.Table{Columns: []string{"district"}}, "state", defaultRegions())
	var mce *MissingColumnError
	assert.ErrorAs(t, err, &mce)
}
