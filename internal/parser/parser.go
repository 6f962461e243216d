// Package parser selects the sheet reader for an input file.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	pcsv "seedqa/internal/parser/csv"
	"seedqa/internal/parser/xlsx"
	"seedqa/pkg/records"
)

// Formats understood by ForFormat.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// SheetReader reads one named sheet from r.
type SheetReader interface {
	ReadSheet(r io.Reader, sheet string) (*records.Sheet, error)
}

// SheetReaderFunc adapts a function to SheetReader.
type SheetReaderFunc func(r io.Reader, sheet string) (*records.Sheet, error)

// ReadSheet implements SheetReader.
func (f SheetReaderFunc) ReadSheet(r io.Reader, sheet string) (*records.Sheet, error) {
	return f(r, sheet)
}

// DetectFormat returns format if set, otherwise guesses from the path
// extension, defaulting to xlsx.
func DetectFormat(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// ForFormat returns the reader for format. csvOpt applies to CSV input only.
func ForFormat(format string, csvOpt pcsv.Options) (SheetReader, error) {
	switch format {
	case FormatXLSX:
		return SheetReaderFunc(xlsx.ReadSheet), nil
	case FormatCSV:
		return pcsv.NewParser(csvOpt), nil
	default:
		return nil, fmt.Errorf("unsupported source format %q", format)
	}
}
