package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func TestValidatePipeline_DefaultIsValid(t *testing.T) {
	if issues := ValidatePipeline(Default()); len(issues) != 0 {
		t.Fatalf("Default() issues: %+v", issues)
	}
}

func TestValidatePipeline_Cases(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Pipeline)
		sev    IssueSeverity
		path   string
		msg    string
	}{
		{"missing job", func(p *Pipeline) { p.Job = " " }, SeverityError, "job", "must not be empty"},
		{"missing path", func(p *Pipeline) { p.Source.Path = "" }, SeverityError, "source.path", "must not be empty"},
		{"xlsx without sheet", func(p *Pipeline) { p.Source.Sheet = "" }, SeverityError, "source.sheet", "requires a sheet"},
		{"bad format", func(p *Pipeline) { p.Source.Format = "json" }, SeverityError, "source.format", "unsupported format"},
		{"csv sheet ignored", func(p *Pipeline) { p.Source.Path = "a.csv"; p.Source.Sheet = "other" }, SeverityWarning, "source.sheet", "ignored"},
		{"csv bad comma", func(p *Pipeline) { p.Source.Path = "a.csv"; p.Source.Options = Options{"comma": ";;"} }, SeverityError, "source.options.comma", "single character"},
		{"bad bind mode", func(p *Pipeline) { p.Bind.Mode = "fuzzy" }, SeverityError, "bind.mode", "unknown bind mode"},
		{"header map positional", func(p *Pipeline) { p.Bind.HeaderMap = map[string]string{"a": "b"} }, SeverityWarning, "bind.header_map", "ignored"},
		{"empty layout", func(p *Pipeline) { p.Normalize.DateLayouts = []string{""} }, SeverityError, "normalize.date_layouts[0]", "must not be empty"},
		{"bad unit", func(p *Pipeline) { p.Normalize.Units = map[string]float64{"oz": 0} }, SeverityError, "normalize.units.oz", "positive"},
		{"negative abs tol", func(p *Pipeline) { p.Validate.AbsTol = -1 }, SeverityError, "validate.abs_tol", "negative"},
		{"negative rel tol", func(p *Pipeline) { p.Validate.RelTol = -1 }, SeverityError, "validate.rel_tol", "negative"},
		{"no output dir", func(p *Pipeline) { p.Output.Dir = "" }, SeverityError, "output.dir", "must not be empty"},
		{"unknown storage", func(p *Pipeline) { p.Storage = Storage{Kind: "mysql", DB: DBConfig{DSN: "x"}} }, SeverityWarning, "storage.kind", "unknown storage kind"},
		{"storage without dsn", func(p *Pipeline) { p.Storage.Kind = "sqlite" }, SeverityError, "storage.db.dsn", "must not be empty"},
		{"negative batch", func(p *Pipeline) { p.Storage = Storage{Kind: "sqlite", DB: DBConfig{DSN: "x", BatchSize: -1}} }, SeverityError, "storage.db.batch_size", "negative"},
		{"s3 without region", func(p *Pipeline) { p.Upload.S3.Bucket = "b" }, SeverityWarning, "upload.s3.region", "no region"},
		{"s3 negative concurrency", func(p *Pipeline) { p.Upload.S3 = S3Upload{Bucket: "b", Region: "r", Concurrency: -2} }, SeverityError, "upload.s3.concurrency", "negative"},
		{"pushgateway without url", func(p *Pipeline) { p.Metrics.Backend = "pushgateway" }, SeverityError, "metrics.pushgateway_url", "requires"},
		{"datadog without addr", func(p *Pipeline) { p.Metrics.Backend = "datadog" }, SeverityError, "metrics.datadog_addr", "requires"},
		{"unknown metrics", func(p *Pipeline) { p.Metrics.Backend = "statsd" }, SeverityError, "metrics.backend", "unknown metrics backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)
			issues := ValidatePipeline(p)
			if !hasIssue(t, issues, tt.sev, tt.path, tt.msg) {
				t.Fatalf("want %s at %s containing %q; got %+v", tt.sev, tt.path, tt.msg, issues)
			}
		})
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors([]Issue{{Severity: SeverityWarning}}) {
		t.Fatal("warnings only should not count as errors")
	}
	if !HasErrors([]Issue{{Severity: SeverityWarning}, {Severity: SeverityError}}) {
		t.Fatal("expected HasErrors")
	}
	if got := (Issue{Severity: SeverityError, Path: "a", Message: "b"}).Error(); got != "error at a: b" {
		t.Fatalf("Error() = %q", got)
	}
}
