// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/skytally/internal/ingest"
	"github.com/tomtom215/skytally/internal/logging"
)

// IngestRunner is the part of ingest.Ingester the service drives.
type IngestRunner interface {
	Run(ctx context.Context) (*ingest.Report, error)
}

// IngestService runs one ingestion when it starts and then waits for
// shutdown. When disabled it only waits.
type IngestService struct {
	runner  IngestRunner
	enabled bool
	name    string
}

// NewIngestService creates the service wrapper.
func NewIngestService(runner IngestRunner, enabled bool) *IngestService {
	return &IngestService{
		runner:  runner,
		enabled: enabled,
		name:    "bucket-ingest",
	}
}

// Serve implements suture.Service.
//
// A run whose bucket listing fails returns the error so the supervisor
// restarts the service with backoff. Objects that fail to load are reported
// and logged by the run itself and do not count as a service failure.
func (s *IngestService) Serve(ctx context.Context) error {
	if !s.enabled {
		logging.Info().Str("service", s.name).Msg("Ingestion disabled, waiting for shutdown")
		<-ctx.Done()
		return ctx.Err()
	}

	report, err := s.runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logging.Info().Msg("Ingestion canceled due to shutdown")
			return ctx.Err()
		}
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if report.Failed > 0 {
		logging.Warn().
			Int("failed", report.Failed).
			Str("run_id", report.RunID).
			Msg("Ingestion finished with failed objects")
	}

	<-ctx.Done()
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *IngestService) String() string {
	return s.name
}
