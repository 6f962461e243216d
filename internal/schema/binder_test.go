package schema

import (
	"errors"
	"reflect"
	"testing"

	"seedqa/pkg/records"
)

func fullRow(fill func(f records.Field) string) []string {
	row := make([]string, records.NumFields)
	for i := range row {
		row[i] = fill(records.Field(i))
	}
	return row
}

func TestBindPositional(t *testing.T) {
	sheet := &records.Sheet{
		Name:   "irp_qa_samples",
		Header: fullRow(func(f records.Field) string { return "col" }),
		Rows: [][]string{
			fullRow(func(f records.Field) string { return f.String() + "-1" }),
			make([]string, records.NumFields), // blank row is skipped
			fullRow(func(f records.Field) string { return f.String() + "-3" }),
		},
	}

	b, err := Bind(sheet)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if !reflect.DeepEqual(b.Columns, records.FieldNames()) {
		t.Fatalf("columns = %v", b.Columns)
	}
	if len(b.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(b.Rows))
	}
	if b.Rows[0].Line != 2 || b.Rows[1].Line != 4 {
		t.Fatalf("lines = %d,%d want 2,4", b.Rows[0].Line, b.Rows[1].Line)
	}
	if got := b.Rows[1].Get(records.Barcode); got != "irp_qa_sample_barcode-3" {
		t.Fatalf("barcode = %q", got)
	}
	if got := b.Rows[0].Get(records.Comment); got != "comment-1" {
		t.Fatalf("comment = %q", got)
	}
}

func TestBindPositional_ShortRowsPadded(t *testing.T) {
	header := fullRow(func(records.Field) string { return "h" })
	sheet := &records.Sheet{Header: header, Rows: [][]string{{"Ann", "Bob"}}}

	b, err := Bind(sheet)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got := b.Rows[0].Get(records.ReceivedByManager); got != "Bob" {
		t.Fatalf("manager = %q", got)
	}
	if got := b.Rows[0].Get(records.Comment); got != "" {
		t.Fatalf("padded comment = %q", got)
	}
}

func TestBindPositional_ColumnCountMismatch(t *testing.T) {
	for _, width := range []int{int(records.NumFields) - 1, int(records.NumFields) + 1} {
		sheet := &records.Sheet{Name: "s", Header: make([]string, width)}
		_, err := Bind(sheet)
		var sme *SchemaMismatchError
		if !errors.As(err, &sme) {
			t.Fatalf("width %d: expected SchemaMismatchError, got %v", width, err)
		}
		if sme.Got != width || sme.Want != int(records.NumFields) {
			t.Fatalf("width %d: got=%d want=%d", width, sme.Got, sme.Want)
		}
	}
}

func TestBindHeader(t *testing.T) {
	sheet := &records.Sheet{
		Header: []string{"Sample Crop", "Barcode", "plated_volume_ml", "Lab Notes"},
		Rows:   [][]string{{"corn", "B-1", "2", "n/a"}},
	}
	b, err := Binder{
		Mode:      ModeHeader,
		HeaderMap: map[string]string{"Barcode": "irp_qa_sample_barcode"},
	}.Bind(sheet)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	want := []string{"irp_qa_sample_barcode", "sample_crop", "plated_volume_mL", "lab_notes"}
	if !reflect.DeepEqual(b.Columns, want) {
		t.Fatalf("columns = %v, want %v", b.Columns, want)
	}
	r := b.Rows[0]
	if r.Get(records.Crop) != "corn" || r.Get(records.Barcode) != "B-1" || r.Get(records.PlatedVolumeML) != "2" {
		t.Fatalf("unexpected binding %#v", r.Cells)
	}
}

func TestBindUnsupportedMode(t *testing.T) {
	if _, err := (Binder{Mode: "magic"}).Bind(&records.Sheet{}); err == nil {
		t.Fatalf("expected error for unsupported mode")
	}
}

func TestOutputTableShapes(t *testing.T) {
	if n := len(Samples.Columns); n != len(SampleFields)+1 {
		t.Fatalf("samples has %d columns", n)
	}
	if last := Samples.Columns[len(Samples.Columns)-1]; last.Name != records.IDColumn || last.Kind != KindInt {
		t.Fatalf("samples last column = %+v", last)
	}
	if got := CFU.ColumnNames(); !reflect.DeepEqual(got, []string{"count", "TCTC", "count_type", "sample_id"}) {
		t.Fatalf("cfu columns = %v", got)
	}
	if spec, ok := Lookup("qa_tests"); !ok || spec.Columns[len(spec.Columns)-1].Name != ColSampleID {
		t.Fatalf("Lookup(qa_tests) = %+v, %v", spec, ok)
	}
	if _, ok := Lookup("issues"); !ok {
		t.Fatalf("issues table not found")
	}

	// Every bound field lands in exactly one of samples / qa_tests / CFU.
	seen := map[records.Field]int{}
	for _, f := range SampleFields {
		seen[f]++
	}
	for _, f := range QATestFields {
		seen[f]++
	}
	for _, d := range records.Dilutions {
		seen[d.Field]++
	}
	for f := records.Field(0); f < records.NumFields; f++ {
		if seen[f] != 1 {
			t.Fatalf("field %s appears %d times across decomposed tables", f, seen[f])
		}
	}
}
