// Package csvdir writes output tables as comma-separated files. Every file of
// a run is first written to a temporary sibling and renamed into place only
// after all of them succeeded, so a failed run leaves earlier outputs intact.
package csvdir

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"seedqa/pkg/records"
)

// File pairs a table with its destination path.
type File struct {
	Path  string
	Table *records.Table
}

// Files maps each table to dir/<table name>.csv.
func Files(dir string, tables []*records.Table) []File {
	out := make([]File, 0, len(tables))
	for _, t := range tables {
		out = append(out, File{Path: filepath.Join(dir, t.Name+".csv"), Table: t})
	}
	return out
}

// Write writes every file and returns the final paths in input order.
func Write(ctx context.Context, files []File) ([]string, error) {
	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, p := range temps {
			_ = os.Remove(p)
		}
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			cleanup()
			return nil, err
		}
		tmp, err := writeTemp(f)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("csvdir: %s: %w", f.Path, err)
		}
		temps = append(temps, tmp)
	}

	paths := make([]string, len(files))
	for i, f := range files {
		if err := os.Rename(temps[i], f.Path); err != nil {
			cleanup()
			return nil, fmt.Errorf("csvdir: rename %s: %w", f.Path, err)
		}
		paths[i] = f.Path
		log.Printf("csvdir: wrote %s rows=%d", f.Path, f.Table.Len())
	}
	return paths, nil
}

func writeTemp(f File) (string, error) {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return "", err
	}
	if err := WriteTable(tmp, f.Table); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// WriteTable writes the header and every row of t to w.
func WriteTable(w io.Writer, t *records.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range rec {
			rec[i] = ""
			if i < len(row) {
				rec[i] = FormatCell(row[i])
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatCell renders one cell: no value is empty, booleans are True/False,
// floats use the shortest decimal form, dates are YYYY-MM-DD.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
