package table

// convert.go coerces spreadsheet cell text into typed scalars and back.
//
// Both adapters end up here: the Sheets API hands back float64/bool/string
// when values are read unformatted, and excelize hands back strings plus a
// cell type. Numbers render without trailing zeros so a state code typed as
// 27 in one sheet and "27" in another normalizes to the same text.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts numeric cell text to an int64 when it is integral and
// fits, otherwise to a float64. ok is false when s is not a number.
func ParseNumber(s string) (v any, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// ParseBool converts spreadsheet boolean text (TRUE/FALSE, 1/0).
func ParseBool(s string) (bool, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "1":
		return true, true
	case "FALSE", "0":
		return false, true
	}
	return false, false
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return formatScalar(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
