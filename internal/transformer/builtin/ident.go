package builtin

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"seedqa/pkg/records"
)

// MissingKeyError is returned when a row lacks part of its natural key.
type MissingKeyError struct {
	Missing []string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing natural key: %s", strings.Join(e.Missing, ", "))
}

// NaturalKey is the canonical text the sample id is derived from.
func NaturalKey(barcode string, received records.Date) string {
	return barcode + "," + received.String()
}

// SampleID derives the deterministic 64-bit id of a sample from its barcode
// and receipt date. Equal keys always produce equal ids, across runs and
// processes.
func SampleID(barcode string, received records.Date) (records.ID, error) {
	return sampleID(xxh3.HashString, barcode, received)
}

func sampleID(hash func(string) uint64, barcode string, received records.Date) (records.ID, error) {
	var missing []string
	if barcode == "" {
		missing = append(missing, records.Barcode.String())
	}
	if !received.Valid {
		missing = append(missing, records.DateReceived.String())
	}
	if len(missing) > 0 {
		return records.ID{}, &MissingKeyError{Missing: missing}
	}
	return records.ID{N: int64(hash(NaturalKey(barcode, received))), Valid: true}, nil
}
