// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

/*
Package supervisor runs Skytally's long-lived services under a suture v4
supervisor tree.

# Tree

	skytally (root)
	├── ingest-layer
	│   └── bucket-ingest   (services.IngestService)
	└── api-layer
	    └── http-server     (services.HTTPServerService)

Each layer restarts its own failed services with exponential backoff. The
layers are isolated: an ingestion that keeps failing to list the bucket does
not take the HTTP server down, so health and readiness endpoints keep
answering while the dataset is incomplete.

# Logging

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog into the slog bridge from internal/logging, so they share the
zerolog output of the rest of the process.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddIngestService(services.NewIngestService(ingester, cfg.Ingest.Enabled))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)
*/
package supervisor
