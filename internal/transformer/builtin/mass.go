package builtin

import (
	"fmt"
	"regexp"
	"strconv"

	"seedqa/pkg/records"
)

// DefaultUnits maps a mass unit suffix to its gram multiplier. Units are
// matched case-sensitively.
var DefaultUnits = map[string]float64{
	"g":  1,
	"mg": 1e-4,
	"ug": 1e-7,
	"kg": 1000,
	"lb": 454,
}

var massRe = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([A-Za-z]+)\s*$`)

// UnitParseError is returned when a mass value is not <number><unit> or the
// unit is unknown.
type UnitParseError struct {
	Value string
	Unit  string
}

func (e *UnitParseError) Error() string {
	if e.Unit != "" {
		return fmt.Sprintf("mass %q: unknown unit %q", e.Value, e.Unit)
	}
	return fmt.Sprintf("mass %q: expected <number><unit>", e.Value)
}

// ParseMass converts "500mg" style text to grams using units (DefaultUnits
// when nil). Empty input is a valid absent mass. On error the returned Mass
// still carries the raw text.
func ParseMass(s string, units map[string]float64) (records.Mass, error) {
	if s == "" {
		return records.Mass{}, nil
	}
	if units == nil {
		units = DefaultUnits
	}
	m := massRe.FindStringSubmatch(s)
	if m == nil {
		return records.Mass{Raw: s}, &UnitParseError{Value: s}
	}
	mul, ok := units[m[2]]
	if !ok {
		return records.Mass{Raw: s}, &UnitParseError{Value: s, Unit: m[2]}
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return records.Mass{Raw: s}, &UnitParseError{Value: s}
	}
	return records.Mass{Grams: n * mul, Raw: s, Parsed: true}, nil
}
