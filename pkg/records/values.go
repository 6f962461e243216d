package records

import (
	"database/sql/driver"
	"strconv"
	"time"

	"github.com/golang-sql/civil"
)

// Date is a calendar date that may be absent. The zero value is "no value"
// and never compares equal to a valid date.
type Date struct {
	civil.Date
	Valid bool
}

// NewDate returns a valid Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Date: civil.Date{Year: year, Month: month, Day: day}, Valid: true}
}

// DateOf returns the valid Date for t's calendar day.
func DateOf(t time.Time) Date {
	return Date{Date: civil.DateOf(t), Valid: true}
}

// String formats the date as YYYY-MM-DD, or "" when absent.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Date.String()
}

// DaysSince returns d - s in whole days. ok is false if either is absent.
func (d Date) DaysSince(s Date) (days int, ok bool) {
	if !d.Valid || !s.Valid {
		return 0, false
	}
	return d.Date.DaysSince(s.Date), true
}

// Value implements driver.Valuer so typed sinks receive a DATE or NULL.
func (d Date) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Date.In(time.UTC), nil
}

// ID is the synthetic sample identifier. Invalid ids come from rows whose
// natural key could not be built.
type ID struct {
	N     int64
	Valid bool
}

func (id ID) String() string {
	if !id.Valid {
		return ""
	}
	return strconv.FormatInt(id.N, 10)
}

// Value implements driver.Valuer.
func (id ID) Value() (driver.Value, error) {
	if !id.Valid {
		return nil, nil
	}
	return id.N, nil
}

// Mass is the extracted seed mass. Parsed masses carry grams; unparsed values
// keep the raw text so nothing recorded is lost.
type Mass struct {
	Grams  float64
	Raw    string
	Parsed bool
}

// String renders grams when parsed, otherwise the raw text.
func (m Mass) String() string {
	if m.Parsed {
		return strconv.FormatFloat(m.Grams, 'f', -1, 64)
	}
	return m.Raw
}

// Value implements driver.Valuer. Unparsed masses are NULL in typed sinks.
func (m Mass) Value() (driver.Value, error) {
	if !m.Parsed {
		return nil, nil
	}
	return m.Grams, nil
}
