package pipeline

import (
	"fmt"
	"strings"
)

// MissingColumnError reports that the classification column was not present
// after column names were canonicalized.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("missing required column %q: table has no columns", e.Column)
	}
	return fmt.Sprintf("missing required column %q (found: %s)", e.Column, strings.Join(e.Available, ", "))
}
