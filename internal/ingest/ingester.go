// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package ingest walks the bucket once and hands every object to the loader
// for its format.
//
// Each object is a named task on an errgroup bounded by the configured
// concurrency. A failing task is logged and recorded in the run Report; it
// never cancels its siblings.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/skytally/internal/loaders"
	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/metrics"
	"github.com/tomtom215/skytally/internal/objectstore"
)

// ErrAlreadyRunning is returned when Run is called during another run.
var ErrAlreadyRunning = errors.New("ingestion already in progress")

// DefaultConcurrency bounds parallel loads when none is configured.
const DefaultConcurrency = 4

// Ingester loads every recognized object of a bucket.
type Ingester struct {
	bucket      objectstore.Bucket
	registry    *loaders.Registry
	concurrency int

	mu      sync.RWMutex
	running bool
	last    *Report
}

// NewIngester creates an Ingester. concurrency < 1 uses DefaultConcurrency.
func NewIngester(bucket objectstore.Bucket, registry *loaders.Registry, concurrency int) *Ingester {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Ingester{
		bucket:      bucket,
		registry:    registry,
		concurrency: concurrency,
	}
}

// Run lists the bucket and loads every object. The returned error is
// non-nil only when the listing fails or ctx is canceled; per-object
// failures are reported in the Report.
func (i *Ingester) Run(ctx context.Context) (*Report, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	i.running = true
	i.mu.Unlock()

	report := &Report{
		RunID:     logging.GenerateRunID(),
		Bucket:    i.bucket.Name(),
		StartTime: time.Now(),
	}
	ctx = logging.ContextWithRunID(ctx, report.RunID)
	logger := logging.Ctx(ctx).With().Str("component", "ingest").Str("bucket", report.Bucket).Logger()

	err := i.run(ctx, report)

	report.EndTime = time.Now()
	report.tally()
	metrics.RecordIngestRun(report.Duration(), err)

	i.mu.Lock()
	i.running = false
	i.last = report
	i.mu.Unlock()

	if err != nil {
		logger.Error().Err(err).Dur("duration", report.Duration()).Msg("Ingestion failed")
		return report, err
	}

	logger.Info().
		Int("objects", len(report.Files)).
		Int("loaded", report.Loaded).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Dur("duration", report.Duration()).
		Msg("Ingestion completed")
	return report, nil
}

func (i *Ingester) run(ctx context.Context, report *Report) error {
	objects, err := i.bucket.List(ctx)
	if err != nil {
		return fmt.Errorf("list bucket %s: %w", i.bucket.Name(), err)
	}

	logging.Ctx(ctx).Info().
		Str("component", "ingest").
		Int("objects", len(objects)).
		Int("concurrency", i.concurrency).
		Msg("Starting ingestion")

	report.Files = make([]FileReport, len(objects))

	var g errgroup.Group
	g.SetLimit(i.concurrency)
	for idx, obj := range objects {
		g.Go(func() error {
			report.Files[idx] = i.loadObject(ctx, obj)
			return nil
		})
	}
	_ = g.Wait()

	return ctx.Err()
}

func (i *Ingester) loadObject(ctx context.Context, obj objectstore.Object) FileReport {
	fr := FileReport{Name: obj.Name}

	loader, err := i.registry.ForObject(obj)
	if err != nil {
		fr.Outcome = OutcomeSkipped
		metrics.RecordIngestFile("unknown", string(OutcomeSkipped), 0)
		logging.Ctx(ctx).Debug().Str("component", "ingest").Str("file", obj.Name).Msg("Skipping object with unknown format")
		return fr
	}
	fr.Format = string(loader.Format())

	if err := ctx.Err(); err != nil {
		fr.Outcome = OutcomeFailed
		fr.Error = err.Error()
		return fr
	}

	start := time.Now()
	res, err := loader.Load(ctx, obj)
	fr.Duration = time.Since(start)
	fr.Collection = res.Collection
	fr.Records = res.Records
	fr.Dropped = res.Dropped

	if err != nil {
		fr.Outcome = OutcomeFailed
		fr.Error = err.Error()
		logging.Ctx(ctx).Error().
			Err(err).
			Str("component", "ingest").
			Str("file", obj.Name).
			Str("format", fr.Format).
			Msg("Failed to load object")
	} else {
		fr.Outcome = OutcomeLoaded
	}
	metrics.RecordIngestFile(fr.Format, string(fr.Outcome), fr.Duration)
	return fr
}

// LastReport returns a copy of the most recent completed run, or nil.
func (i *Ingester) LastReport() *Report {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.last == nil {
		return nil
	}
	r := *i.last
	r.Files = append([]FileReport(nil), i.last.Files...)
	return &r
}

// Formats returns the file formats the ingester can load.
func (i *Ingester) Formats() []loaders.Format {
	return i.registry.Formats()
}

// IsRunning reports whether a run is in progress.
func (i *Ingester) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}
