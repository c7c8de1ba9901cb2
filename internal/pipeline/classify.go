package pipeline

import (
	"github.com/JonMunkholm/landsplit/internal/config"
	"github.com/JonMunkholm/landsplit/internal/table"
)

// Bucket is a named subset of a table's rows.
type Bucket struct {
	Name     string
	Table    *table.Table
	Template []string
}

// acceptSet is the canonicalized accepted-value set of one region.
type acceptSet map[string]struct{}

func newAcceptSet(values []string) acceptSet {
	set := make(acceptSet, len(values))
	for _, v := range values {
		set[CategoryValue(v)] = struct{}{}
	}
	return set
}

// Classify partitions t into one bucket per region, in region order.
//
// The classification column must already hold canonical values (see
// NormalizeCategory). Each bucket is a view over t's rows in their original
// order. A row whose value matches several regions lands in each of them;
// a row matching none is dropped from every bucket.
func Classify(t *table.Table, column string, regions []config.RegionDef) ([]Bucket, error) {
	buckets, _, err := classify(t, column, regions)
	return buckets, err
}

// classify also reports how many rows matched no region.
func classify(t *table.Table, column string, regions []config.RegionDef) ([]Bucket, int, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, 0, &MissingColumnError{Column: column, Available: t.Columns}
	}

	sets := make([]acceptSet, len(regions))
	members := make([][]int, len(regions))
	for i, r := range regions {
		sets[i] = newAcceptSet(r.Accept)
	}

	unmatched := 0
	for r := range t.Rows {
		v := CategoryValue(t.Cell(r, idx))
		hit := false
		for i, set := range sets {
			if _, ok := set[v]; ok {
				members[i] = append(members[i], r)
				hit = true
			}
		}
		if !hit {
			unmatched++
		}
	}

	buckets := make([]Bucket, len(regions))
	for i, r := range regions {
		buckets[i] = Bucket{
			Name:     r.Name,
			Table:    t.View(members[i]),
			Template: r.Template,
		}
	}
	return buckets, unmatched, nil
}
