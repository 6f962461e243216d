// Package xlsx reads one worksheet of an Excel workbook into a
// records.Sheet using excelize. Cells are read as stored rather than as
// displayed: dates arrive as serial day numbers and numbers without their
// display format, so "1,200" or "11-Jan-21" never reach coercion.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"seedqa/pkg/records"
)

// ErrNoHeader is returned for a worksheet without any rows.
var ErrNoHeader = errors.New("xlsx: sheet has no header row")

// ReadSheet opens the workbook in r and returns the named worksheet. The
// first row is the header. Empty rows inside the data are kept so that row
// positions match the workbook. A missing sheet error names the sheets the
// workbook does have.
func ReadSheet(r io.Reader, sheet string) (*records.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	var missing excelize.ErrSheetNotExist
	if errors.As(err, &missing) {
		return nil, fmt.Errorf("read sheet %q (workbook has %s): %w",
			sheet, strings.Join(f.GetSheetList(), ", "), err)
	}
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, ErrNoHeader)
	}
	return &records.Sheet{Name: sheet, Header: rows[0], Rows: rows[1:]}, nil
}
