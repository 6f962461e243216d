package config

import (
	"fmt"
	"strings"

	"seedqa/internal/parser"
	"seedqa/internal/schema"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "upload.s3.bucket"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation of a Pipeline. It never
// mutates p; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateBind(p.Bind)...)
	issues = append(issues, validateNormalize(p.Normalize)...)
	issues = append(issues, validateTolerances(p.Validate)...)
	issues = append(issues, validateOutput(p.Output)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateUpload(p.Upload)...)
	issues = append(issues, validateMetrics(p.Metrics)...)
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Path) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "source.path must not be empty",
		})
	}
	switch f := parser.DetectFormat(s.Path, s.Format); f {
	case parser.FormatXLSX:
		if strings.TrimSpace(s.Sheet) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.sheet",
				Message:  "workbook input requires a sheet name",
			})
		}
	case parser.FormatCSV:
		if s.Sheet != "" && s.Sheet != DefaultSheet {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.sheet",
				Message:  fmt.Sprintf("sheet %q is ignored for csv input", s.Sheet),
			})
		}
		if c := s.Options.String("comma", ","); len([]rune(c)) != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.options.comma",
				Message:  fmt.Sprintf("comma must be a single character, got %q", c),
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.format",
			Message:  fmt.Sprintf("unsupported format %q; want xlsx or csv", f),
		})
	}
	return issues
}

func validateBind(b Bind) []Issue {
	var issues []Issue
	switch strings.ToLower(strings.TrimSpace(b.Mode)) {
	case "", schema.ModePositional:
		if len(b.HeaderMap) > 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "bind.header_map",
				Message:  "header_map is ignored in positional mode",
			})
		}
	case schema.ModeHeader:
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "bind.mode",
			Message:  fmt.Sprintf("unknown bind mode %q; want positional or header", b.Mode),
		})
	}
	return issues
}

func validateNormalize(n Normalize) []Issue {
	var issues []Issue
	for i, l := range n.DateLayouts {
		if strings.TrimSpace(l) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("normalize.date_layouts[%d]", i),
				Message:  "date layout must not be empty",
			})
		}
	}
	for u, m := range n.Units {
		if m <= 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "normalize.units." + u,
				Message:  fmt.Sprintf("unit multiplier must be positive, got %v", m),
			})
		}
	}
	return issues
}

func validateTolerances(v Validate) []Issue {
	var issues []Issue
	if v.AbsTol < 0 {
		issues = append(issues, Issue{Severity: SeverityError, Path: "validate.abs_tol", Message: "abs_tol must not be negative"})
	}
	if v.RelTol < 0 {
		issues = append(issues, Issue{Severity: SeverityError, Path: "validate.rel_tol", Message: "rel_tol must not be negative"})
	}
	return issues
}

func validateOutput(o Output) []Issue {
	if strings.TrimSpace(o.Dir) == "" {
		return []Issue{{Severity: SeverityError, Path: "output.dir", Message: "output.dir must not be empty"}}
	}
	return nil
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Kind) == "" {
		return nil
	}
	known := map[string]struct{}{
		"postgres": {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if s.DB.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	return issues
}

func validateUpload(u Upload) []Issue {
	var issues []Issue
	s3 := u.S3
	if strings.TrimSpace(s3.Bucket) == "" {
		return nil
	}
	if s3.Region == "" && s3.Endpoint == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "upload.s3.region",
			Message:  "no region or endpoint set; the AWS default chain must provide one",
		})
	}
	if s3.Concurrency < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "upload.s3.concurrency",
			Message:  "concurrency must not be negative",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch strings.ToLower(strings.TrimSpace(m.Backend)) {
	case "", "none":
	case "pushgateway":
		if m.PushgatewayURL == "" {
			return []Issue{{Severity: SeverityError, Path: "metrics.pushgateway_url", Message: "pushgateway backend requires pushgateway_url"}}
		}
	case "datadog":
		if m.DatadogAddr == "" {
			return []Issue{{Severity: SeverityError, Path: "metrics.datadog_addr", Message: "datadog backend requires datadog_addr"}}
		}
	default:
		return []Issue{{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; want none, pushgateway or datadog", m.Backend),
		}}
	}
	return nil
}
