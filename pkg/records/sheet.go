package records

// Sheet is a raw positional table as loaded from a workbook or CSV file.
// Header holds the first row; Rows holds the data rows with empty strings
// for blank cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Width returns the number of columns in the sheet: the widest of the header
// and every data row.
func (s *Sheet) Width() int {
	if s == nil {
		return 0
	}
	w := len(s.Header)
	for _, r := range s.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Raw is one input row bound to the logical schema. Cells are indexed by
// Field; Line is the 1-based line in the source (the header is line 1).
type Raw struct {
	Line  int
	Cells [NumFields]string
}

// Get returns the raw cell for f.
func (r Raw) Get(f Field) string { return r.Cells[f] }
