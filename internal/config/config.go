// Package config defines the JSON-serializable configuration model for a
// seedqa run. Decoding is done with encoding/json; Options gives typed
// access to the free-form source options bag.
//
// Example (trimmed):
//
//	{
//	  "job":     "seed-qa",
//	  "source":  { "path": "assets/seed_qa_tests.xlsx", "sheet": "irp_qa_samples" },
//	  "bind":    { "mode": "positional" },
//	  "output":  { "dir": "csv_outputs", "issues_file": "csv_outputs/issues.csv" },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "seedqa.db", "auto_create_table": true } }
//	}
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Defaults used when a pipeline file leaves a field empty.
const (
	DefaultJob       = "seedqa"
	DefaultPath      = "assets/seed_qa_tests.xlsx"
	DefaultSheet     = "irp_qa_samples"
	DefaultOutputDir = "csv_outputs"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run for logs, metrics and upload keys.
	Job string `json:"job"`

	Source    Source        `json:"source"`
	Bind      Bind          `json:"bind"`
	Normalize Normalize     `json:"normalize"`
	Validate  Validate      `json:"validate"`
	Output    Output        `json:"output"`
	Storage   Storage       `json:"storage"`
	Upload    Upload        `json:"upload"`
	Metrics   Metrics       `json:"metrics"`
	Runtime   RuntimeConfig `json:"runtime"`
}

// Source locates the input sheet.
type Source struct {
	// Path is a local path or an s3://bucket/key URI.
	Path string `json:"path"`
	// Sheet is the workbook sheet name. Ignored for CSV input.
	Sheet string `json:"sheet"`
	// Format is "xlsx" or "csv"; empty means detect from the path.
	Format string `json:"format"`
	// Options is interpreted by the sheet reader. For CSV: comma (string),
	// lazy_quotes (bool).
	Options Options `json:"options"`
}

// Bind configures the schema binder.
type Bind struct {
	// Mode is "positional" (default) or "header".
	Mode string `json:"mode"`
	// HeaderMap renames source headers to logical field names in header mode.
	HeaderMap map[string]string `json:"header_map"`
}

// Normalize configures field coercion.
type Normalize struct {
	// DropKeylessRows removes rows whose id could not be built.
	DropKeylessRows bool `json:"drop_keyless_rows"`
	// DateLayouts replaces the built-in date layouts when non-empty.
	DateLayouts []string `json:"date_layouts"`
	// Units replaces the built-in mass unit table when non-empty.
	Units map[string]float64 `json:"units"`
}

// Validate holds the average-CFU tolerances. Zero means the built-in default.
type Validate struct {
	AbsTol float64 `json:"abs_tol"`
	RelTol float64 `json:"rel_tol"`
}

// Output configures the CSV directory sink.
type Output struct {
	Dir string `json:"dir"`
	// IssuesFile, when set, receives the issues table as CSV.
	IssuesFile string `json:"issues_file"`
}

// Storage selects the optional SQL sink. An empty Kind disables it.
type Storage struct {
	Kind string   `json:"kind"`
	DB   DBConfig `json:"db"`
}

// DBConfig configures the SQL sink.
type DBConfig struct {
	// DSN is the backend connection string.
	DSN string `json:"dsn"`
	// Prefix is prepended to every table name, e.g. "qa." or "dbo.".
	Prefix string `json:"prefix"`
	// BatchSize is the number of rows per bulk copy.
	BatchSize int `json:"batch_size"`
	// Replace clears each table before loading. Defaults to true.
	Replace *bool `json:"replace"`
	// AutoCreateTable creates missing tables from the output table specs.
	AutoCreateTable bool `json:"auto_create_table"`
}

// ReplaceTables reports the effective replace setting.
func (d DBConfig) ReplaceTables() bool {
	return d.Replace == nil || *d.Replace
}

// Upload configures optional uploads of the written files.
type Upload struct {
	S3 S3Upload `json:"s3"`
}

// S3Upload configures the S3 sink. An empty Bucket disables it.
type S3Upload struct {
	Bucket      string `json:"bucket"`
	Region      string `json:"region"`
	Endpoint    string `json:"endpoint"`
	Prefix      string `json:"prefix"`
	PathStyle   bool   `json:"path_style"`
	Concurrency int    `json:"concurrency"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "pushgateway" or "datadog".
	Backend        string `json:"backend"`
	PushgatewayURL string `json:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr"`
}

// RuntimeConfig holds run-level switches.
type RuntimeConfig struct {
	// Strict makes a run that raised issues exit non-zero.
	Strict bool `json:"strict"`
	// IssueSummaryLimit caps the messages logged per issue kind; negative
	// logs all, zero uses 10.
	IssueSummaryLimit int `json:"issue_summary_limit"`
}

// Default returns a pipeline with every default filled in.
func Default() Pipeline {
	return Pipeline{
		Job:    DefaultJob,
		Source: Source{Path: DefaultPath, Sheet: DefaultSheet, Options: Options{}},
		Output: Output{Dir: DefaultOutputDir},
	}
}

// Decode decodes a pipeline from JSON on top of Default. Unknown fields are
// rejected so typos surface early.
func Decode(b []byte) (Pipeline, error) {
	p := Default()
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("config: decode: %w", err)
	}
	return p, nil
}

// Load reads and decodes the pipeline file at path.
func Load(path string) (Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Decode(b)
}

// Options fetches typed values from a free-form JSON map. It performs only
// minimal coercion and returns the provided default when a key is absent or
// of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so float64 is accepted and truncated.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Used for single-character settings such as a delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON makes a null "options" object decode to an empty, non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
