package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/JonMunkholm/landsplit/internal/pipeline"
)

type outputOptions struct {
	bucket string
	pretty bool
}

// writeResult prints the full result, or only one bucket's records when
// --bucket is set.
func writeResult(w io.Writer, res *pipeline.Result, opts outputOptions) error {
	var v any = res
	if opts.bucket != "" {
		records, ok := res.Bucket(opts.bucket)
		if !ok {
			return fmt.Errorf("unknown bucket %q", opts.bucket)
		}
		if records == nil {
			records = []pipeline.Record{}
		}
		v = records
	}

	enc := json.NewEncoder(w)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
