package builtin

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads a whole cell as a float. ok is false for empty or
// non-numeric text. "NaN" parses and is returned as NaN.
func ParseNumber(s string) (v float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LeadingNumber reads the first whitespace-separated token of s, so that
// "10 days" yields 10.
func LeadingNumber(s string) (v float64, ok bool) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return 0, false
	}
	v, ok = ParseNumber(f[0])
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// CountValue interprets a CFU cell. Numeric cells give their value truncated
// to an int64 count; empty or NaN cells give nil. Anything else (e.g. "too
// many to count") gives nil with tctc set, as do infinities and values
// outside the int64 range.
func CountValue(s string) (count any, tctc bool) {
	v, ok := ParseNumber(s)
	if !ok {
		if strings.TrimSpace(s) == "" {
			return nil, false
		}
		return nil, true
	}
	if math.IsNaN(v) {
		return nil, false
	}
	v = math.Trunc(v)
	if v >= maxCount || v < -maxCount {
		return nil, true
	}
	return int64(v), false
}

// maxCount is 2^63, the first float64 beyond the int64 range.
const maxCount = float64(1 << 63)
