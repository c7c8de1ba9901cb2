// Package pipeline turns a raw survey table into region buckets.
//
// The stages run in a fixed order, each a plain function over *table.Table:
//
//	NormalizeColumns  -> canonical column names
//	NormalizeCategory -> canonical classification values
//	Classify          -> one bucket per configured region
//	Project           -> optional per-region column template
//	Serialize         -> ordered records with missing cells as ""
//
// Run strings them together for one request. Nothing here keeps state between
// calls; the profile is passed in and treated as read-only.
package pipeline

import (
	"bytes"
	"encoding/json"

	"github.com/JonMunkholm/landsplit/internal/config"
	"github.com/JonMunkholm/landsplit/internal/table"
)

// BucketResult is the serialized content of one bucket.
type BucketResult struct {
	Name    string
	Records []Record
}

// Result is the full response for one ingestion, buckets in profile order.
type Result struct {
	Buckets []BucketResult

	// TotalRows is the number of data rows that entered the pipeline.
	TotalRows int

	// Unmatched counts rows that fell into no regional bucket.
	Unmatched int
}

// Bucket returns the records of the named bucket.
func (r *Result) Bucket(name string) ([]Record, bool) {
	for _, b := range r.Buckets {
		if b.Name == name {
			return b.Records, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the result as an object keyed by bucket name, keys in
// bucket order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range r.Buckets {
		if i > 0 {
			buf.WriteByte(',')
		}
		records := b.Records
		if records == nil {
			records = []Record{}
		}
		kb, err := json.Marshal(b.Name)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(records)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Run executes the full pipeline over raw using profile p.
// Either every bucket is produced or an error is returned; there are no
// partial results.
func Run(raw *table.Table, p config.Profile) (*Result, error) {
	t := NormalizeColumns(raw)

	if err := NormalizeCategory(t, p.ClassificationColumn); err != nil {
		return nil, err
	}

	buckets, unmatched, err := classify(t, p.ClassificationColumn, p.Regions)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Buckets:   make([]BucketResult, 0, len(buckets)+1),
		TotalRows: t.Len(),
		Unmatched: unmatched,
	}

	for _, b := range buckets {
		shaped := b.Table
		if b.Template != nil {
			shaped = Project(b.Table, b.Template)
		}
		res.Buckets = append(res.Buckets, BucketResult{
			Name:    b.Name,
			Records: Serialize(shaped),
		})
	}

	if p.IncludeAll {
		name := p.AllBucket
		if name == "" {
			name = config.DefaultAllBucket
		}
		res.Buckets = append(res.Buckets, BucketResult{
			Name:    name,
			Records: Serialize(t),
		})
	}

	return res, nil
}
