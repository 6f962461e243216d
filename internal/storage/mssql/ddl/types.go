// Package ddl renders SQL Server DDL for the output tables.
package ddl

import (
	"strings"

	"seedqa/internal/schema"
)

// MapType maps a logical column kind onto a SQL Server type. Text falls back
// to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case schema.KindInt:
		return "BIGINT"
	case schema.KindFloat:
		return "FLOAT"
	case schema.KindBool:
		return "BIT"
	case schema.KindDate:
		return "DATE"
	default:
		return "NVARCHAR(MAX)"
	}
}
