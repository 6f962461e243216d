package builtin

import (
	"fmt"
	"strings"
)

// DeDup collapses table rows whose full tuples are equal, keeping the first
// occurrence. Surviving rows keep their input order. nil and "" are distinct.
type DeDup struct{}

// Apply implements transformer.Transformer[[]any].
func (DeDup) Apply(in [][]any) [][]any {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([][]any, 0, len(in))
	for _, row := range in {
		key := keyOf(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

func keyOf(row []any) string {
	var b strings.Builder
	for i, v := range row {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch t := v.(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteString(t)
		default:
			b.WriteString(fmt.Sprint(t))
		}
	}
	return b.String()
}
