// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the seedqa pipeline.
//
// The global backend defaults to a no-op implementation, so the Record
// helpers are always safe to call. Concrete systems live in subpackages
// (prompush, datadog) and are installed with SetBackend.
package metrics

import "time"

// Metric names emitted by the Record helpers.
const (
	StepTotal       = "seedqa_step_total"
	StepDuration    = "seedqa_step_duration_seconds"
	RowsTotal       = "seedqa_rows_total"
	IssuesTotal     = "seedqa_issues_total"
	TableRowsTotal  = "seedqa_table_rows_total"
	LoadedRowsTotal = "seedqa_loaded_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one pipeline stage execution and observes its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows increments the row counter for kind, e.g. "read", "normalized",
// "dropped".
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordIssues increments the issue counter for one diagnostic kind.
func RecordIssues(job, kind string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(IssuesTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordTable counts the rows written to one output table.
func RecordTable(job, table string, rows int) {
	if rows <= 0 {
		return
	}
	backend.IncCounter(TableRowsTotal, float64(rows), Labels{"job": job, "table": table})
}

// RecordLoaded counts the rows a SQL backend reported as inserted.
func RecordLoaded(job, table string, rows int64) {
	if rows <= 0 {
		return
	}
	backend.IncCounter(LoadedRowsTotal, float64(rows), Labels{"job": job, "table": table})
}
