// Package storage contains storage-agnostic contracts and utilities.
// This file implements the batched loader: rows are drained from a channel
// and handed to a backend bulk-insert function (CopyFn) one batch at a time,
// and LoadTables uses it to replace every output table in a database.
package storage

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"seedqa/internal/schema"
	"seedqa/pkg/records"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations should
// insert the provided rows (aligned to 'columns' order) and return the number
// of rows reported as inserted. The function should be safe for repeated calls
// and cancel promptly when ctx is done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains typed rows from 'in', groups them into batches of size
// 'batchSize', and calls 'copyFn' for each non-empty batch. It returns the total
// number of rows reported by copyFn and the first error encountered.
//
// Cancellation: returns (total, ctx.Err()) when canceled. Progress is logged on
// each successful flush.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		batch       = make([][]any, 0, batchSize)
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n

		// Reuse allocated slice; keep capacity to avoid churn.
		batch = batch[:0]

		if err != nil {
			log.Printf("loader: COPY failed after=%d total=%d err=%v", n, total, err)

			return err
		}

		// Progress log per successful batch.
		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		insertedSinceLast := total - lastTotal
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(insertedSinceLast) / sinceLast.Seconds()
		}
		log.Printf(
			"loader: batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
			batches,
			rps,
			n,
			total,
			now.Sub(start).Truncate(time.Millisecond),
			sinceLast.Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total

		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				// Channel closed: flush remaining rows.
				if err := flush(); err != nil {
					return total, err
				}
				log.Printf("loader: input closed, batches=%d total_inserted=%d", batches, total)

				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}

// DefaultBatchSize is used when LoadOptions.BatchSize is zero.
const DefaultBatchSize = 500

// LoadOptions controls LoadTables.
type LoadOptions struct {
	Kind       string // storage kind, selects the DDL dialect
	Prefix     string // prepended to every table name
	BatchSize  int
	Replace    bool // clear each table before loading
	AutoCreate bool // create missing tables
}

// LoadStat reports one loaded table.
type LoadStat struct {
	Table string
	Rows  int64
}

// LoadTables writes every table to repo: create if missing, clear, then
// batch-load its rows. Tables are processed in order and the first error
// stops the load.
func LoadTables(ctx context.Context, repo Repository, tables []*records.Table, opt LoadOptions) ([]LoadStat, error) {
	size := opt.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	stats := make([]LoadStat, 0, len(tables))
	for _, t := range tables {
		fqn := opt.Prefix + t.Name
		if opt.AutoCreate {
			spec, ok := schema.Lookup(t.Name)
			if !ok {
				return stats, fmt.Errorf("loader: no table spec for %q", t.Name)
			}
			if err := EnsureTable(ctx, opt.Kind, repo, spec, fqn); err != nil {
				return stats, fmt.Errorf("loader: ensure %s: %w", fqn, err)
			}
		}
		if opt.Replace {
			if err := repo.Clear(ctx, fqn); err != nil {
				return stats, fmt.Errorf("loader: clear %s: %w", fqn, err)
			}
		}
		n, err := loadTable(ctx, repo, fqn, t, size)
		if err != nil {
			return stats, fmt.Errorf("loader: %s: %w", fqn, err)
		}
		log.Printf("loader: table=%s rows=%d", fqn, n)
		stats = append(stats, LoadStat{Table: fqn, Rows: n})
	}
	return stats, nil
}

func loadTable(ctx context.Context, repo Repository, fqn string, t *records.Table, size int) (int64, error) {
	g, gctx := errgroup.WithContext(ctx)
	in := make(chan []any, size)
	g.Go(func() error {
		defer close(in)
		for _, row := range t.Rows {
			vals, err := SQLValues(row)
			if err != nil {
				return err
			}
			select {
			case in <- vals:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	var total int64
	g.Go(func() error {
		var err error
		total, err = LoadBatches(gctx, t.Columns, in, size, func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
			return repo.CopyFrom(ctx, fqn, cols, rows)
		})
		return err
	})
	err := g.Wait()
	return total, err
}

// SQLValues resolves driver.Valuer cells (dates, ids, masses) to plain
// driver values so every backend receives nil, int64, float64, bool, string
// or time.Time.
func SQLValues(row []any) ([]any, error) {
	out := make([]any, len(row))
	for i, v := range row {
		if dv, ok := v.(driver.Valuer); ok {
			x, err := dv.Value()
			if err != nil {
				return nil, err
			}
			out[i] = x
			continue
		}
		out[i] = v
	}
	return out, nil
}
