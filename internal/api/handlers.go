// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package api

import (
	"context"
	"time"

	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/enrich"
	"github.com/tomtom215/skytally/internal/ingest"
	"github.com/tomtom215/skytally/internal/loaders"
	"github.com/tomtom215/skytally/internal/models"
	"github.com/tomtom215/skytally/internal/pagination"
)

// FlightSource produces the full raw flight list for a request.
// Satisfied by *assembler.Assembler.
type FlightSource interface {
	Assemble(ctx context.Context) ([]models.Flight, error)
}

// IngestReporter exposes the ingestion state.
// Satisfied by *ingest.Ingester.
type IngestReporter interface {
	LastReport() *ingest.Report
	IsRunning() bool
	Formats() []loaders.Format
}

// BucketHealth exposes the circuit state of the source bucket.
// Satisfied by *objectstore.GuardedBucket.
type BucketHealth interface {
	Name() string
	State() string
}

// HandlerConfig collects the Handler dependencies.
type HandlerConfig struct {
	Store   *dataset.Store
	Flights FlightSource
	Engine  *enrich.Engine
	// Ingest is optional; /api/ingest reports "pending" without it.
	Ingest IngestReporter
	// Bucket is optional; readiness omits the bucket state without it.
	Bucket BucketHealth

	PageSize    int
	DatasetWait time.Duration
}

// Handler implements the HTTP endpoints.
type Handler struct {
	store       *dataset.Store
	flights     FlightSource
	engine      *enrich.Engine
	ingest      IngestReporter
	bucket      BucketHealth
	pageSize    int
	datasetWait time.Duration
	startTime   time.Time
}

// NewHandler creates a Handler. Zero PageSize uses pagination.DefaultPageSize
// and a nil Engine uses the wall clock for ages.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.PageSize <= 0 {
		cfg.PageSize = pagination.DefaultPageSize
	}
	if cfg.Engine == nil {
		cfg.Engine = enrich.NewEngine(nil)
	}
	return &Handler{
		store:       cfg.Store,
		flights:     cfg.Flights,
		engine:      cfg.Engine,
		ingest:      cfg.Ingest,
		bucket:      cfg.Bucket,
		pageSize:    cfg.PageSize,
		datasetWait: cfg.DatasetWait,
		startTime:   time.Now(),
	}
}
