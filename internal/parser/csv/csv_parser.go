// Package csv reads a delimited text export of the QA sheet into a
// records.Sheet. The first row is the header.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"seedqa/pkg/records"
)

// Options configures the reader. The zero value reads comma-separated input.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// LazyQuotes relaxes quote handling for hand-edited exports.
	LazyQuotes bool
}

// Parser reads CSV input according to Options.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// ReadSheet reads every row of r. Rows may differ in width; binding decides
// what to do with them. An input with no header row is an error.
func (p *Parser) ReadSheet(r io.Reader, name string) (*records.Sheet, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read csv header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	sh := &records.Sheet{Name: name, Header: StripHeaderBOM(header)}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		sh.Rows = append(sh.Rows, row)
	}
	return sh, nil
}

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return headers
}
