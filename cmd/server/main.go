// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/skytally/internal/api"
	"github.com/tomtom215/skytally/internal/assembler"
	"github.com/tomtom215/skytally/internal/config"
	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/enrich"
	"github.com/tomtom215/skytally/internal/ingest"
	"github.com/tomtom215/skytally/internal/loaders"
	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/objectstore"
	"github.com/tomtom215/skytally/internal/supervisor"
	"github.com/tomtom215/skytally/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("storage_backend", cfg.Storage.Backend).
		Str("staging_dir", cfg.Ingest.StagingDir).
		Msg("Starting Skytally with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rawBucket, err := openBucket(ctx, cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open bucket")
	}
	bucket := objectstore.NewGuardedBucket(rawBucket, objectstore.GuardConfig{
		RequestsPerSecond:   cfg.Storage.RequestsPerSecond,
		Burst:               cfg.Storage.RequestBurst,
		ConsecutiveFailures: cfg.Storage.BreakerFailures,
		OpenTimeout:         cfg.Storage.BreakerTimeout,
	})
	logging.Info().Str("bucket", bucket.Name()).Msg("Bucket opened")

	store := dataset.NewStore()
	registry := loaders.NewDefaultRegistry(loaders.Deps{
		Bucket:         bucket,
		Store:          store,
		StagingDir:     cfg.Ingest.StagingDir,
		FlightFileName: cfg.Assembly.FlightFileName,
	})
	ingester := ingest.NewIngester(bucket, registry, cfg.Ingest.Concurrency)

	flights := assembler.New(assembler.Config{
		FlightsDir:     cfg.Assembly.FlightsDir,
		SnapshotPath:   cfg.Assembly.SnapshotPath,
		FlightFileName: cfg.Assembly.FlightFileName,
	})

	handler := api.NewHandler(api.HandlerConfig{
		Store:       store,
		Flights:     flights,
		Engine:      enrich.NewEngine(nil),
		Ingest:      ingester,
		Bucket:      bucket,
		PageSize:    cfg.API.PageSize,
		DatasetWait: cfg.API.DatasetWait,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromAPI(cfg.API)))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout + treeConfig.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddIngestService(services.NewIngestService(ingester, cfg.Ingest.Enabled))
	if cfg.Ingest.Watch && cfg.Storage.Backend == config.StorageBackendLocal {
		watcher := ingest.NewWatcher(cfg.Storage.LocalDir, ingester, cfg.Ingest.WatchDebounce)
		tree.AddIngestService(services.NewWatchService(watcher))
		logging.Info().Str("dir", cfg.Storage.LocalDir).Msg("Bucket watch added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().
		Bool("ingest_enabled", cfg.Ingest.Enabled).
		Int("concurrency", cfg.Ingest.Concurrency).
		Msg("Ingestion and HTTP services added to supervisor tree")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
		os.Exit(1)
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openBucket builds the configured bucket backend.
func openBucket(ctx context.Context, cfg config.StorageConfig) (objectstore.Bucket, error) {
	switch cfg.Backend {
	case config.StorageBackendS3:
		return objectstore.NewS3Bucket(ctx, objectstore.S3Config{
			Bucket:           cfg.Bucket,
			Region:           cfg.Region,
			Endpoint:         cfg.Endpoint,
			UsePathStyle:     cfg.UsePathStyle,
			AccessKeyID:      cfg.AccessKeyID,
			SecretAccessKey:  cfg.SecretAccessKey,
			SessionToken:     cfg.SessionToken,
			OperationTimeout: cfg.Timeout,
		})
	case config.StorageBackendLocal:
		return objectstore.NewDirBucket(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
