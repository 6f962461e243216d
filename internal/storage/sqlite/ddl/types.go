// Package ddl renders SQLite DDL for the output tables.
package ddl

import (
	"strings"

	"seedqa/internal/schema"
)

// MapType maps a logical column kind onto a SQLite type affinity. Dates are
// stored as ISO-8601 text and booleans as 0/1 integers.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case schema.KindInt, schema.KindBool:
		return "INTEGER"
	case schema.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}
