// Package ddl renders Postgres DDL for the output tables.
package ddl

import (
	"strings"

	"seedqa/internal/schema"
)

// MapType maps a logical column kind onto a Postgres type.
//
//	int   -> BIGINT (sample ids are 64-bit hashes)
//	float -> DOUBLE PRECISION
//	bool  -> BOOLEAN
//	date  -> DATE
//	text and anything else -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case schema.KindInt:
		return "BIGINT"
	case schema.KindFloat:
		return "DOUBLE PRECISION"
	case schema.KindBool:
		return "BOOLEAN"
	case schema.KindDate:
		return "DATE"
	default:
		return "TEXT"
	}
}
