// Command seedqa validates a seed-sample QA spreadsheet and writes it out as
// a small set of normalized tables.
//
//	seedqa [flags] [workbook [sheet]]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"seedqa/internal/config"
	"seedqa/internal/metrics"
	"seedqa/internal/metrics/datadog"
	"seedqa/internal/metrics/prompush"

	// register all backends with the storage factory.
	_ "seedqa/internal/storage/all"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitWarnings = 2
)

// overrides carries command-line values that take precedence over the file.
type overrides struct {
	outDir         string
	issuesFile     string
	bindMode       string
	strict         bool
	metricsBackend string
	pushgatewayURL string
	datadogAddr    string
	args           []string
}

func main() {
	var (
		cfgPath  string
		validate bool
		o        overrides
	)
	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path (optional)")
	flag.StringVar(&o.outDir, "out", "", "output directory for CSV tables (default csv_outputs)")
	flag.StringVar(&o.issuesFile, "issues", "", "write data-quality issues to this CSV file")
	flag.StringVar(&o.bindMode, "bind", "", "column binding mode: positional or header")
	flag.BoolVar(&o.strict, "strict", false, "exit with status 2 when any issue was raised")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.StringVar(&o.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides env METRICS_BACKEND)")
	flag.StringVar(&o.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&o.datadogAddr, "datadog-addr", "", "DogStatsD address (overrides env DD_AGENT_HOST)")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()
	o.args = flag.Args()

	if len(o.args) > 2 {
		fatalf("usage: seedqa [flags] [workbook [sheet]]")
	}

	p := config.Default()
	if cfgPath != "" {
		var err error
		if p, err = config.Load(cfgPath); err != nil {
			fatalf("%v", err)
		}
	}
	applyOverrides(&p, o, os.Getenv)

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid")
		os.Exit(exitFailure)
	}
	if validate {
		log.Printf("Configuration is valid")
		os.Exit(exitOK)
	}

	flush := setupMetrics(p, *verbose)

	ctx := context.Background()
	start := time.Now()
	if *verbose {
		log.Printf("pipeline: source=%s sheet=%s bind=%s out=%s storage=%s",
			p.Source.Path, p.Source.Sheet, p.Bind.Mode, p.Output.Dir, p.Storage.Kind)
	}

	sum, err := run(ctx, p)
	flush()
	if err != nil {
		fatalf("%v", err)
	}
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	if p.Runtime.Strict && sum.Issues > 0 {
		log.Printf("strict: %d issues raised", sum.Issues)
		os.Exit(exitWarnings)
	}
}

// applyOverrides layers flags and environment over p: flag, then env, then file or
// default.
func applyOverrides(p *config.Pipeline, o overrides, getenv func(string) string) {
	if len(o.args) > 0 {
		p.Source.Path = o.args[0]
	}
	if len(o.args) > 1 {
		p.Source.Sheet = o.args[1]
	}
	switch {
	case o.outDir != "":
		p.Output.Dir = o.outDir
	case getenv("SEEDQA_OUTPUT_DIR") != "":
		p.Output.Dir = getenv("SEEDQA_OUTPUT_DIR")
	}
	if o.issuesFile != "" {
		p.Output.IssuesFile = o.issuesFile
	}
	if o.bindMode != "" {
		p.Bind.Mode = o.bindMode
	}
	if o.strict {
		p.Runtime.Strict = true
	}
	if n, err := strconv.Atoi(getenv("SEEDQA_BATCH_SIZE")); err == nil && n > 0 && p.Storage.DB.BatchSize == 0 {
		p.Storage.DB.BatchSize = n
	}

	p.Metrics.Backend = pick(o.metricsBackend, getenv("METRICS_BACKEND"), p.Metrics.Backend)
	p.Metrics.PushgatewayURL = pick(o.pushgatewayURL, getenv("PUSHGATEWAY_URL"), p.Metrics.PushgatewayURL)
	ddAddr := ""
	if host := getenv("DD_AGENT_HOST"); host != "" {
		ddAddr = net.JoinHostPort(host, "8125")
	}
	p.Metrics.DatadogAddr = pick(o.datadogAddr, ddAddr, p.Metrics.DatadogAddr)
}

// pick returns the first non-empty value.
func pick(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// setupMetrics installs the configured backend and returns its flush func.
func setupMetrics(p config.Pipeline, verbose bool) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch p.Metrics.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(p.Job, p.Metrics.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       p.Metrics.DatadogAddr,
			GlobalTags: []string{"service:seedqa", "job:" + p.Job},
		})
	default:
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", p.Metrics.Backend)
		}
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", p.Metrics.Backend, err)
		return func() {}
	}
	log.Printf("metrics: backend=%s job_name=%s", p.Metrics.Backend, p.Job)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(exitFailure)
}
