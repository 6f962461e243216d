package records

// Table is a narrow output table. Cell values are nil, string, int64,
// float64, bool, Date, Mass or ID.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// NewTable returns an empty table with the given columns.
func NewTable(name string, columns []string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds a row. The row length must match Columns.
func (t *Table) Append(row ...any) {
	t.Rows = append(t.Rows, row)
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
