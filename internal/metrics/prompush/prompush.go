// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. A run is a batch job, so collected metrics are pushed to
// a Pushgateway on Flush instead of being exposed for scraping.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"seedqa/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // seedqa_step_total
	stepDuration *prometheus.SummaryVec // seedqa_step_duration_seconds

	rowCounter    *prometheus.CounterVec // seedqa_rows_total{kind}
	issueCounter  *prometheus.CounterVec // seedqa_issues_total{kind}
	tableCounter  *prometheus.CounterVec // seedqa_table_rows_total{table}
	loadedCounter *prometheus.CounterVec // seedqa_loaded_rows_total{table}
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name (often same as pipeline job).
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "seedqa"
	}

	reg := prometheus.NewRegistry()

	// job is the Pushgateway grouping key, so it is not a label here.
	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        reg,
		stepCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline stage executions by step and status.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Duration of pipeline stages in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"step", "status"}),
		rowCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Spreadsheet rows by kind (read, normalized, dropped).",
		}, []string{"kind"}),
		issueCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.IssuesTotal,
			Help: "Data-quality issues raised, by issue kind.",
		}, []string{"kind"}),
		tableCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.TableRowsTotal,
			Help: "Rows written per output table.",
		}, []string{"table"}),
		loadedCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.LoadedRowsTotal,
			Help: "Rows inserted into the SQL sink per table.",
		}, []string{"table"}),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":   b.stepCounter,
		"step summary":   b.stepDuration,
		"row counter":    b.rowCounter,
		"issue counter":  b.issueCounter,
		"table counter":  b.tableCounter,
		"loaded counter": b.loadedCounter,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

// IncCounter implements metrics.Backend. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	var (
		vec *prometheus.CounterVec
		lv  []string
	)
	switch name {
	case metrics.StepTotal:
		vec, lv = b.stepCounter, []string{labels["step"], labels["status"]}
	case metrics.RowsTotal:
		vec, lv = b.rowCounter, []string{labels["kind"]}
	case metrics.IssuesTotal:
		vec, lv = b.issueCounter, []string{labels["kind"]}
	case metrics.TableRowsTotal:
		vec, lv = b.tableCounter, []string{labels["table"]}
	case metrics.LoadedRowsTotal:
		vec, lv = b.loadedCounter, []string{labels["table"]}
	}
	if vec == nil {
		return
	}
	vec.WithLabelValues(lv...).Add(delta)
}

// ObserveHistogram implements metrics.Backend for the step duration summary.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDuration || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
