package ddl

import "seedqa/internal/schema"

// FromTableSpec builds the definition of an output table named fqn, mapping
// each logical column kind through the dialect's mapType. Every column is
// nullable: absent values are written as NULL.
func FromTableSpec(spec schema.TableSpec, fqn string, mapType func(kind string) string) TableDef {
	cols := make([]ColumnDef, len(spec.Columns))
	for i, c := range spec.Columns {
		cols[i] = ColumnDef{Name: c.Name, SQLType: mapType(c.Kind), Nullable: true}
	}
	return TableDef{FQN: fqn, Columns: cols}
}
