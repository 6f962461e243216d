package builtin

import "seedqa/pkg/records"

// Require removes records that have no valid id or lack a value for any of
// Fields.
type Require struct {
	Fields []records.Field
	ID     bool
}

// Apply returns the filtered records, reusing in's backing array.
func (r Require) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		if r.ID && !rec.ID.Valid {
			continue
		}
		ok := true
		for _, f := range r.Fields {
			if records.IsEmpty(rec.Value(f)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}
