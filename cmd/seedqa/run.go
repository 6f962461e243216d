package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"seedqa/internal/config"
	"seedqa/internal/datasource"
	"seedqa/internal/datasource/file"
	"seedqa/internal/datasource/s3obj"
	"seedqa/internal/decompose"
	"seedqa/internal/diag"
	"seedqa/internal/metrics"
	"seedqa/internal/objstore"
	"seedqa/internal/output/csvdir"
	"seedqa/internal/output/s3upload"
	"seedqa/internal/parser"
	pcsv "seedqa/internal/parser/csv"
	"seedqa/internal/schema"
	"seedqa/internal/storage"
	"seedqa/internal/transformer"
	"seedqa/internal/transformer/builtin"
	"seedqa/pkg/records"
)

const defaultSummaryLimit = 10

// Function variables used to introduce test seams.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	newS3ClientFn = func(ctx context.Context, cfg objstore.Config) (*s3.Client, error) {
		return objstore.NewClient(ctx, cfg)
	}

	openSourceFn = openSource

	newRunID = uuid.NewString
)

// Summary reports what a run produced.
type Summary struct {
	RunID    string
	RowsRead int
	Records  int
	Issues   int
	Files    []string
	Loaded   []storage.LoadStat
	Uploaded []string
}

// run reads, binds, normalizes, validates and decomposes the source sheet,
// then hands the tables to every configured sink. Data issues never stop a
// run. An error before the CSV stage leaves no CSV output behind.
func run(ctx context.Context, p config.Pipeline) (*Summary, error) {
	sum := &Summary{RunID: newRunID()}
	job := p.Job
	var issues diag.Collector

	var sheet *records.Sheet
	err := step(job, "read", func() error {
		var err error
		sheet, err = readSheet(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	var bound *schema.Bound
	err = step(job, "bind", func() error {
		var err error
		bound, err = schema.Binder{Mode: p.Bind.Mode, HeaderMap: p.Bind.HeaderMap}.Bind(sheet)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", p.Source.Path, err)
	}
	sum.RowsRead = len(bound.Rows)
	metrics.RecordRows(job, "read", int64(sum.RowsRead))

	var recs []records.Record
	_ = step(job, "normalize", func() error {
		raws := transformer.Chain[records.Raw]{builtin.Normalize{}}.Apply(bound.Rows)
		recs = builtin.Coerce{
			Layouts: p.Normalize.DateLayouts,
			Units:   p.Normalize.Units,
			Report:  &issues,
		}.Apply(raws)
		if p.Normalize.DropKeylessRows {
			before := len(recs)
			recs = transformer.Chain[records.Record]{builtin.Require{ID: true}}.Apply(recs)
			metrics.RecordRows(job, "dropped", int64(before-len(recs)))
		}
		return nil
	})
	sum.Records = len(recs)
	metrics.RecordRows(job, "normalized", int64(sum.Records))

	_ = step(job, "validate", func() error {
		columns := append(append([]string(nil), bound.Columns...), records.IDColumn)
		builtin.Validate{AbsTol: p.Validate.AbsTol, RelTol: p.Validate.RelTol}.Run(columns, recs, &issues)
		return nil
	})

	var tables []*records.Table
	_ = step(job, "decompose", func() error {
		tables = decompose.Decompose(recs).Tables()
		return nil
	})
	issuesTable := issues.Table()

	files := csvdir.Files(p.Output.Dir, tables)
	if p.Output.IssuesFile != "" {
		files = append(files, csvdir.File{Path: p.Output.IssuesFile, Table: issuesTable})
	}
	err = step(job, "write_csv", func() error {
		var err error
		sum.Files, err = csvdir.Write(ctx, files)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		metrics.RecordTable(job, t.Name, t.Len())
	}

	if p.Storage.Kind != "" {
		err = step(job, "load", func() error {
			var err error
			sum.Loaded, err = loadStorage(ctx, p, append(tables, issuesTable))
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	if p.Upload.S3.Bucket != "" {
		err = step(job, "upload", func() error {
			var err error
			sum.Uploaded, err = upload(ctx, p, sum.RunID, sum.Files)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	for _, k := range issues.Kinds() {
		metrics.RecordIssues(job, string(k), issues.Count(k))
	}
	limit := p.Runtime.IssueSummaryLimit
	if limit == 0 {
		limit = defaultSummaryLimit
	}
	issues.LogSummary(limit)
	sum.Issues = issues.Len()
	log.Printf("summary: run_id=%s rows=%d records=%d issues=%d files=%d loaded_tables=%d uploaded=%d",
		sum.RunID, sum.RowsRead, sum.Records, sum.Issues, len(sum.Files), len(sum.Loaded), len(sum.Uploaded))
	return sum, nil
}

// step times fn and records it as a pipeline stage.
func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}

func readSheet(ctx context.Context, p config.Pipeline) (*records.Sheet, error) {
	format := parser.DetectFormat(p.Source.Path, p.Source.Format)
	reader, err := parser.ForFormat(format, pcsv.Options{
		Comma:      p.Source.Options.Rune("comma", ','),
		LazyQuotes: p.Source.Options.Bool("lazy_quotes", false),
	})
	if err != nil {
		return nil, err
	}
	rc, err := openSourceFn(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	sheet, err := reader.ReadSheet(rc, p.Source.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.Source.Path, err)
	}
	return sheet, nil
}

// openSource opens a local file or, for s3:// paths, an S3 object using the
// upload.s3 connection settings.
func openSource(ctx context.Context, p config.Pipeline) (io.ReadCloser, error) {
	src, err := sourceFor(ctx, p)
	if err != nil {
		return nil, err
	}
	return src.Open(ctx)
}

func sourceFor(ctx context.Context, p config.Pipeline) (datasource.Source, error) {
	if !objstore.IsURI(p.Source.Path) {
		return file.NewLocal(p.Source.Path), nil
	}
	bucket, key, err := objstore.ParseURI(p.Source.Path)
	if err != nil {
		return nil, err
	}
	client, err := newS3ClientFn(ctx, s3Config(p))
	if err != nil {
		return nil, err
	}
	return s3obj.New(client, bucket, key), nil
}

func s3Config(p config.Pipeline) objstore.Config {
	return objstore.Config{
		Region:    p.Upload.S3.Region,
		Endpoint:  p.Upload.S3.Endpoint,
		PathStyle: p.Upload.S3.PathStyle,
	}
}

func loadStorage(ctx context.Context, p config.Pipeline, tables []*records.Table) ([]storage.LoadStat, error) {
	repo, err := newRepositoryFn(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	defer repo.Close()

	stats, err := storage.LoadTables(ctx, repo, tables, storage.LoadOptions{
		Kind:       p.Storage.Kind,
		Prefix:     p.Storage.DB.Prefix,
		BatchSize:  p.Storage.DB.BatchSize,
		Replace:    p.Storage.DB.ReplaceTables(),
		AutoCreate: p.Storage.DB.AutoCreateTable,
	})
	for _, s := range stats {
		metrics.RecordLoaded(p.Job, s.Table, s.Rows)
	}
	return stats, err
}

func upload(ctx context.Context, p config.Pipeline, runID string, paths []string) ([]string, error) {
	client, err := newS3ClientFn(ctx, s3Config(p))
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	u := &s3upload.Uploader{
		Client:      client,
		Bucket:      p.Upload.S3.Bucket,
		Prefix:      p.Upload.S3.Prefix,
		Concurrency: p.Upload.S3.Concurrency,
	}
	return u.Upload(ctx, runID, paths)
}
