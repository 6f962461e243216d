// Package diag collects non-fatal pipeline issues. Issues are typed and
// row-addressable so they can be logged, counted in metrics and written out
// next to the output tables. Nothing in this package ever stops a run.
package diag

import (
	"fmt"
	"log"
	"sort"

	"seedqa/internal/schema"
	"seedqa/pkg/records"
)

// Kind classifies an issue.
type Kind string

const (
	MissingColumns   Kind = "missing_columns"
	ExtraColumns     Kind = "extra_columns"
	EmptyColumn      Kind = "empty_column"
	IntervalMismatch Kind = "interval_mismatch"
	AverageMismatch  Kind = "average_mismatch"
	UnitParse        Kind = "unit_parse"
	DateParse        Kind = "date_parse"
	MissingKey       Kind = "missing_key"
	DuplicateKey     Kind = "duplicate_key"
	IDCollision      Kind = "id_collision"
)

// Issue is a single finding. Table-level issues have Line == 0.
type Issue struct {
	Kind     Kind
	Line     int
	Column   string
	Barcode  string
	Received records.Date
	Message  string
	Err      error
}

// String renders the issue the way it is logged.
func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// AtRow builds an issue addressed by the row's natural key.
func AtRow(kind Kind, r *records.Record, column, msg string) Issue {
	return Issue{
		Kind:     kind,
		Line:     r.Line,
		Column:   column,
		Barcode:  r.Barcode,
		Received: r.DateReceived,
		Message:  msg,
	}
}

// Reporter receives issues. *Collector implements it.
type Reporter interface {
	Report(Issue)
}

// Collector accumulates issues in arrival order. The zero value is ready to
// use. It is not safe for concurrent use; the pipeline is single-threaded.
type Collector struct {
	issues []Issue
	counts map[Kind]int
}

// Report implements Reporter.
func (c *Collector) Report(i Issue) {
	if c.counts == nil {
		c.counts = make(map[Kind]int)
	}
	c.issues = append(c.issues, i)
	c.counts[i.Kind]++
}

// Issues returns all collected issues in arrival order.
func (c *Collector) Issues() []Issue { return c.issues }

// Len returns the number of collected issues.
func (c *Collector) Len() int { return len(c.issues) }

// Count returns the number of issues of kind k.
func (c *Collector) Count(k Kind) int { return c.counts[k] }

// Kinds returns the kinds seen so far, sorted.
func (c *Collector) Kinds() []Kind {
	out := make([]Kind, 0, len(c.counts))
	for k := range c.counts {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Of returns the issues of kind k in arrival order.
func (c *Collector) Of(k Kind) []Issue {
	var out []Issue
	for _, i := range c.issues {
		if i.Kind == k {
			out = append(out, i)
		}
	}
	return out
}

// LogSummary prints a per-kind summary showing at most limit messages each.
func (c *Collector) LogSummary(limit int) {
	for _, k := range c.Kinds() {
		of := c.Of(k)
		shown := len(of)
		if limit >= 0 && shown > limit {
			shown = limit
		}
		log.Printf("%s: %d (showing first %d)", k, len(of), shown)
		for n, i := range of[:shown] {
			log.Printf("  #%03d: %s", n+1, i)
		}
	}
}

// Table renders the collected issues as the issues output table.
func (c *Collector) Table() *records.Table {
	t := records.NewTable(schema.Issues.Name, schema.Issues.ColumnNames())
	for _, i := range c.issues {
		var line any
		if i.Line > 0 {
			line = int64(i.Line)
		}
		t.Append(string(i.Kind), line, i.Column, i.Barcode, i.Received, i.Message)
	}
	return t
}
