// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

/*
Package services provides suture.Service wrappers for Skytally components.

Each wrapper implements the suture v4 interface

	type Service interface {
	    Serve(ctx context.Context) error
	}

and identifies itself through fmt.Stringer for the supervisor event log.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server and converts ListenAndServe to Serve
  - Graceful shutdown with a configurable drain timeout

Ingestion (IngestService):
  - Runs one bucket ingestion when started, then idles until shutdown
  - A failed bucket listing is returned to the supervisor, which restarts
    the service with backoff; per-file failures are not

Bucket watch (WatchService):
  - Runs ingest.Watcher on the local bucket directory
  - Any stop other than shutdown is a failure and is restarted

# Usage

	tree.AddIngestService(services.NewIngestService(ingester, true))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
*/
package services
