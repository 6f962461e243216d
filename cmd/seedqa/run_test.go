package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"seedqa/internal/config"
	"seedqa/internal/objstore"
	"seedqa/internal/schema"
	"seedqa/pkg/records"
)

func sampleRow(barcode, planted string) []string {
	row := make([]string, records.NumFields)
	set := map[records.Field]string{
		records.ReceivedBy:                      "Alice",
		records.ReceivedByManager:               "Carol",
		records.ReceivedByTeam:                  "Lab",
		records.Barcode:                         barcode,
		records.Farm:                            "North",
		records.TreatmentName:                   "T1",
		records.Crop:                            "Corn",
		records.SeedVariety:                     "V1",
		records.DateReceived:                    "2021-01-01",
		records.DateTaken:                       "2020-12-30",
		records.DateTreated:                     "2021-01-01",
		records.DatePlanted:                     planted,
		records.DaysBetweenTreatmentAndPlanting: "10 days",
		records.IsQANeeded:                      "yes",
		records.TestedBy:                        "Bob",
		records.TestedByManager:                 "Carol",
		records.TestedByTeam:                    "Lab",
		records.ChemicalTreatmentVisible:        "no",
		records.TestingDatePlated:               "2021-01-12",
		records.PlatingCode:                     "P-1",
		records.SeedsG:                          "10g",
		records.MassSeedExtractedG:              "500mg",
		records.PlatedVolumeML:                  "1",
		records.CFU1x:                           "10",
		records.CFU10x:                          "20",
		records.CFU100x:                         "TCTC",
		records.CFU1000x:                        "0",
		records.AverageCFUPerSeed:               "15",
		records.Comment:                         "ok",
	}
	for f, v := range set {
		row[f] = v
	}
	return row
}

func writeInput(t *testing.T, rows ...[]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(records.FieldNames()); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testPipeline(t *testing.T, input []byte) config.Pipeline {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "qa.csv")
	if err := os.WriteFile(src, input, 0o644); err != nil {
		t.Fatal(err)
	}
	p := config.Default()
	p.Source.Path = src
	p.Output.Dir = filepath.Join(dir, "out")
	p.Output.IssuesFile = filepath.Join(dir, "out", "issues.csv")
	return p
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return rows
}

func TestRunWritesTables(t *testing.T) {
	p := testPipeline(t, writeInput(t,
		sampleRow("B1", "2021-01-11"),
		sampleRow("B2", "2021-01-11"),
		make([]string, records.NumFields),
	))

	sum, err := run(context.Background(), p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.RowsRead != 2 || sum.Records != 2 {
		t.Fatalf("rows=%d records=%d, want 2/2", sum.RowsRead, sum.Records)
	}
	if len(sum.Files) != 6 {
		t.Fatalf("files = %v", sum.Files)
	}

	want := map[string]int{
		schema.TableEmployees:   2,
		schema.TableSampleSeeds: 1,
		schema.TableSamples:     2,
		schema.TableQATests:     2,
		schema.TableCFU:         8,
	}
	for name, n := range want {
		rows := readCSV(t, filepath.Join(p.Output.Dir, name+".csv"))
		if got := len(rows) - 1; got != n {
			t.Errorf("%s: %d data rows, want %d", name, got, n)
		}
		spec, _ := schema.Lookup(name)
		if !reflect.DeepEqual(rows[0], spec.ColumnNames()) {
			t.Errorf("%s header = %v", name, rows[0])
		}
	}

	cfu := readCSV(t, filepath.Join(p.Output.Dir, schema.TableCFU+".csv"))
	if cfu[3][1] != "True" || cfu[3][0] != "" || cfu[1][0] != "10" || cfu[1][2] != "1x" {
		t.Fatalf("unexpected cfu rows: %v", cfu[1:5])
	}
}

func TestRunIsIdempotent(t *testing.T) {
	p := testPipeline(t, writeInput(t,
		sampleRow("B1", "2021-01-11"),
		sampleRow("B2", "not a date"),
	))

	read := func() map[string][]byte {
		out := map[string][]byte{}
		entries, err := os.ReadDir(p.Output.Dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			b, err := os.ReadFile(filepath.Join(p.Output.Dir, e.Name()))
			if err != nil {
				t.Fatal(err)
			}
			out[e.Name()] = b
		}
		return out
	}

	if _, err := run(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	first := read()
	sum, err := run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Issues == 0 {
		t.Fatal("want a date issue for the unparseable planting date")
	}
	if !reflect.DeepEqual(first, read()) {
		t.Fatal("second run produced different output")
	}
}

func TestRunSchemaMismatch(t *testing.T) {
	p := testPipeline(t, []byte("a,b,c\n1,2,3\n"))
	_, err := run(context.Background(), p)
	var sm *schema.SchemaMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("want SchemaMismatchError, got %v", err)
	}
	if sm.Got != 3 || sm.Want != int(records.NumFields) {
		t.Fatalf("mismatch = %+v", sm)
	}
	if _, err := os.Stat(p.Output.Dir); !os.IsNotExist(err) {
		t.Fatalf("output dir should not exist: %v", err)
	}
}

func TestRunLoadsSQLite(t *testing.T) {
	p := testPipeline(t, writeInput(t,
		sampleRow("B1", "2021-01-11"),
		sampleRow("B2", "2021-01-11"),
	))
	dsn := filepath.Join(t.TempDir(), "qa.db")
	p.Storage.Kind = "sqlite"
	p.Storage.DB.DSN = dsn
	p.Storage.DB.AutoCreateTable = true

	for i := 0; i < 2; i++ {
		if _, err := run(context.Background(), p); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "colony_forming_units"`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Fatalf("colony_forming_units has %d rows after two runs, want 8", n)
	}
	var tctc int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "colony_forming_units" WHERE "TCTC" = 1`).Scan(&tctc); err != nil {
		t.Fatal(err)
	}
	if tctc != 2 {
		t.Fatalf("TCTC rows = %d, want 2", tctc)
	}
}

func TestRunS3SourceAndUpload(t *testing.T) {
	ctx := context.Background()
	client, fake, err := objstore.NewFakeClient(ctx)
	if err != nil {
		t.Fatal(err)
	}
	oldClient, oldID := newS3ClientFn, newRunID
	newS3ClientFn = func(context.Context, objstore.Config) (*s3.Client, error) { return client, nil }
	newRunID = func() string { return "run-1" }
	t.Cleanup(func() { newS3ClientFn, newRunID = oldClient, oldID })

	fake.Put("in", "exports/qa.csv", writeInput(t, sampleRow("B1", "2021-01-11")))

	p := config.Default()
	p.Source.Path = "s3://in/exports/qa.csv"
	p.Source.Format = "csv"
	p.Output.Dir = t.TempDir()
	p.Upload.S3.Bucket = "out"
	p.Upload.S3.Prefix = "qa"

	sum, err := run(ctx, p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.RunID != "run-1" || len(sum.Uploaded) != 5 {
		t.Fatalf("summary = %+v", sum)
	}
	body, ok := fake.Object("out", "qa/run-1/samples.csv")
	if !ok {
		t.Fatalf("samples.csv not uploaded: %v", fake.Keys())
	}
	local, err := os.ReadFile(filepath.Join(p.Output.Dir, "samples.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(body, local) {
		t.Fatal("uploaded object differs from local file")
	}
}

func TestRunMissingSource(t *testing.T) {
	p := config.Default()
	p.Source.Path = filepath.Join(t.TempDir(), "missing.csv")
	p.Output.Dir = t.TempDir()
	_, err := run(context.Background(), p)
	if err == nil || !strings.Contains(err.Error(), "open source") {
		t.Fatalf("want open source error, got %v", err)
	}
}

func TestApplyOverrides(t *testing.T) {
	env := map[string]string{
		"SEEDQA_OUTPUT_DIR": "/env/out",
		"SEEDQA_BATCH_SIZE": "250",
		"METRICS_BACKEND":   "pushgateway",
		"PUSHGATEWAY_URL":   "http://env:9091",
		"DD_AGENT_HOST":     "agent",
	}
	p := config.Default()
	applyOverrides(&p, overrides{
		args:           []string{"book.xlsx", "Sheet2"},
		metricsBackend: "datadog",
		strict:         true,
	}, func(k string) string { return env[k] })

	if p.Source.Path != "book.xlsx" || p.Source.Sheet != "Sheet2" {
		t.Fatalf("source = %+v", p.Source)
	}
	if p.Output.Dir != "/env/out" || p.Storage.DB.BatchSize != 250 || !p.Runtime.Strict {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.Metrics.Backend != "datadog" || p.Metrics.PushgatewayURL != "http://env:9091" || p.Metrics.DatadogAddr != "agent:8125" {
		t.Fatalf("metrics = %+v", p.Metrics)
	}

	p = config.Default()
	applyOverrides(&p, overrides{outDir: "/flag/out"}, func(k string) string { return env[k] })
	if p.Output.Dir != "/flag/out" {
		t.Fatalf("flag should win over env: %s", p.Output.Dir)
	}
}
