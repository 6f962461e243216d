// Package ddl is the dialect-neutral table model the storage backends render
// into CREATE TABLE statements.
package ddl

// ColumnDef describes a single column. Name is unquoted; dialects quote it
// when rendering. Default is raw SQL.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the fully-qualified table name (FQN, dotted form such as
// "schema.table") and the ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
