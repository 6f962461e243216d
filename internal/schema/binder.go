// Package schema binds raw spreadsheet columns onto the logical QA schema and
// describes the shape of the normalized output tables.
package schema

import (
	"fmt"
	"strings"

	"seedqa/pkg/records"
)

// Binding modes.
const (
	ModePositional = "positional"
	ModeHeader     = "header"
)

// SchemaMismatchError is returned when a positional sheet does not have
// exactly one column per logical field.
type SchemaMismatchError struct {
	Sheet string
	Got   int
	Want  int
}

func (e *SchemaMismatchError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("schema mismatch: sheet %q has %d columns, want %d", e.Sheet, e.Got, e.Want)
	}
	return fmt.Sprintf("schema mismatch: input has %d columns, want %d", e.Got, e.Want)
}

// Bound is the output of binding: the rows mapped onto records.Field plus the
// column names that the input actually provided (in binding order).
type Bound struct {
	Columns []string
	Rows    []records.Raw
}

// Binder maps a records.Sheet onto the logical schema.
//
// In positional mode (the default) column N feeds field N and the sheet must
// have exactly records.NumFields columns. In header mode columns are matched
// by canonicalized header name, optionally through HeaderMap
// (source header -> logical name); unknown headers are carried in
// Bound.Columns so the validator can report them.
type Binder struct {
	Mode      string
	HeaderMap map[string]string
}

// Bind binds sheet with the default positional binder.
func Bind(sheet *records.Sheet) (*Bound, error) {
	return Binder{}.Bind(sheet)
}

// Bind binds sheet according to b.Mode.
func (b Binder) Bind(sheet *records.Sheet) (*Bound, error) {
	if sheet == nil {
		return nil, fmt.Errorf("bind: nil sheet")
	}
	switch strings.ToLower(strings.TrimSpace(b.Mode)) {
	case "", ModePositional:
		return bindPositional(sheet)
	case ModeHeader:
		return b.bindHeader(sheet), nil
	default:
		return nil, fmt.Errorf("bind: unsupported mode %q", b.Mode)
	}
}

func bindPositional(sheet *records.Sheet) (*Bound, error) {
	if w := sheet.Width(); w != int(records.NumFields) {
		return nil, &SchemaMismatchError{Sheet: sheet.Name, Got: w, Want: int(records.NumFields)}
	}
	out := &Bound{Columns: records.FieldNames()}
	for i, row := range sheet.Rows {
		if blankRow(row) {
			continue
		}
		raw := records.Raw{Line: i + 2}
		copy(raw.Cells[:], row)
		out.Rows = append(out.Rows, raw)
	}
	return out, nil
}

func (b Binder) bindHeader(sheet *records.Sheet) *Bound {
	hm := make(map[string]string, len(b.HeaderMap))
	for k, v := range b.HeaderMap {
		hm[CanonicalHeader(k)] = v
	}

	// colField[i] is the field fed by source column i, or -1.
	colField := make([]records.Field, len(sheet.Header))
	seen := make(map[records.Field]bool)
	var extras []string
	for i, h := range sheet.Header {
		name := CanonicalHeader(h)
		if mapped, ok := hm[name]; ok && mapped != "" {
			name = mapped
		}
		f, ok := records.FieldByName(name)
		if !ok || seen[f] {
			colField[i] = -1
			if name != "" {
				extras = append(extras, name)
			}
			continue
		}
		colField[i] = f
		seen[f] = true
	}

	out := &Bound{}
	for _, name := range records.FieldNames() {
		f, _ := records.FieldByName(name)
		if seen[f] {
			out.Columns = append(out.Columns, name)
		}
	}
	out.Columns = append(out.Columns, extras...)

	for i, row := range sheet.Rows {
		if blankRow(row) {
			continue
		}
		raw := records.Raw{Line: i + 2}
		for c, v := range row {
			if c < len(colField) && colField[c] >= 0 {
				raw.Cells[colField[c]] = v
			}
		}
		out.Rows = append(out.Rows, raw)
	}
	return out
}

// CanonicalHeader lower-cases a header and folds spaces and dashes to
// underscores. "plated_volume_mL" is special-cased to keep its spelling.
func CanonicalHeader(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t':
			return '_'
		}
		return r
	}, s)
	if s == "plated_volume_ml" {
		return records.PlatedVolumeML.String()
	}
	return s
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
