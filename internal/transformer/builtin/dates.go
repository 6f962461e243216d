package builtin

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"seedqa/pkg/records"
)

// DefaultDateLayouts are tried in order when coercing date cells.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01-02-06",
	"1/2/2006",
	"1/2/06",
	"1/2/06 15:04",
	"2006/01/02",
	"02.01.2006",
}

// Excel serials outside this range are not dates (1900-01-01 .. 9999-12-31).
const (
	minSerial = 1
	maxSerial = 2958466
)

// DateParseError is returned for a non-empty value that matches no layout.
type DateParseError struct {
	Field string
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("%s: cannot parse date %q", e.Field, e.Value)
}

// ParseDate coerces s to a calendar date. Empty input yields an absent date
// and no error. Numeric input is read as an Excel serial day number, which is
// what workbooks exported without cell formats carry.
func ParseDate(field, s string, layouts []string) (records.Date, error) {
	if s == "" {
		return records.Date{}, nil
	}
	if layouts == nil {
		layouts = DefaultDateLayouts
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return records.DateOf(t), nil
		}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= minSerial && v < maxSerial {
		if t, err := excelize.ExcelDateToTime(v, false); err == nil {
			return records.DateOf(t), nil
		}
	}
	return records.Date{}, &DateParseError{Field: field, Value: s}
}
