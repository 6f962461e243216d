package xlsx

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"seedqa/internal/transformer/builtin"
	"seedqa/pkg/records"
)

func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	return &buf
}

func TestReadSheet(t *testing.T) {
	buf := workbook(t, "irp_qa_samples", [][]any{
		{"a", "b", "c"},
		{"x", 12, "2021-01-01"},
		{"y"},
	})
	sh, err := ReadSheet(buf, "irp_qa_samples")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(sh.Header, []string{"a", "b", "c"}) {
		t.Fatalf("header=%q", sh.Header)
	}
	want := [][]string{{"x", "12", "2021-01-01"}, {"y"}}
	if !reflect.DeepEqual(sh.Rows, want) {
		t.Fatalf("rows=%q want %q", sh.Rows, want)
	}
	if sh.Width() != 3 {
		t.Fatalf("width=%d", sh.Width())
	}
}

func TestReadSheetMissing(t *testing.T) {
	buf := workbook(t, "other", [][]any{{"a"}})
	_, err := ReadSheet(buf, "irp_qa_samples")
	var nf excelize.ErrSheetNotExist
	if !errors.As(err, &nf) {
		t.Fatalf("want ErrSheetNotExist, got %v", err)
	}
}

func TestReadSheetMissingListsSheets(t *testing.T) {
	_, err := ReadSheet(workbook(t, "qa", [][]any{{"a"}}), "irp_qa_samples")
	if err == nil || !strings.Contains(err.Error(), "workbook has Sheet1, qa") {
		t.Fatalf("error does not list sheets: %v", err)
	}
}

func TestReadSheetStoredValues(t *testing.T) {
	const sheet = "irp_qa_samples"
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatal(err)
	}
	set := func(cell string, v any) {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatal(err)
		}
	}
	style := func(cell string, s *excelize.Style) {
		id, err := f.NewStyle(s)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
			t.Fatal(err)
		}
	}
	set("A1", "date_treated")
	set("B1", "cfu_seed_1x")
	set("C1", "average_cfu_per_seed")
	set("A2", time.Date(2021, time.January, 11, 0, 0, 0, 0, time.UTC))
	set("B2", 1200)
	set("C2", 1160.5)
	dayMonth := "d-mmm-yy"
	style("A2", &excelize.Style{CustomNumFmt: &dayMonth})
	style("B2", &excelize.Style{NumFmt: 3})
	style("C2", &excelize.Style{NumFmt: 3})

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	sh, err := ReadSheet(&buf, sheet)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"44207", "1200", "1160.5"}
	if !reflect.DeepEqual(sh.Rows[0], want) {
		t.Fatalf("cells=%q want %q", sh.Rows[0], want)
	}

	d, err := builtin.ParseDate("date_treated", sh.Rows[0][0], nil)
	if err != nil || d != records.NewDate(2021, time.January, 11) {
		t.Fatalf("date = %v, %v", d, err)
	}
	if count, tctc := builtin.CountValue(sh.Rows[0][1]); count != int64(1200) || tctc {
		t.Fatalf("count = %v, tctc=%v", count, tctc)
	}
}
