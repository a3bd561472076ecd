// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

/*
Package main is the entry point for the Skytally server.

Skytally ingests flight reference data (airports, aircraft, tickets and
passengers) together with monthly flight files from an object storage bucket,
and serves enriched flight listings over HTTP.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("skytally")
	├── IngestSupervisor ("ingest-layer")
	│   └── Bucket ingestion (one run at startup)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Bucket: S3-compatible object storage or a local directory
 4. Dataset Store: in-memory reference collections
 5. Loaders: XML, CSV, JSON and YAML decoders keyed by file extension
 6. Flight Assembler and Enrichment Engine
 7. HTTP Server: chi router with CORS, rate limiting, metrics and gzip
 8. Supervisor Tree

The HTTP server starts immediately. Flight requests made before the reference
collections have loaded wait up to API_DATASET_WAIT and are then served with
whatever has loaded.

# Configuration

Main environment variables:

	HTTP_HOST, HTTP_PORT           listen address (default 0.0.0.0:3000)
	STORAGE_BACKEND                s3 or local
	STORAGE_BUCKET                 bucket name (s3)
	STORAGE_ENDPOINT               S3-compatible endpoint, e.g. https://storage.googleapis.com
	STORAGE_LOCAL_DIR              bucket root (local)
	INGEST_STAGING_DIR             where JSON and YAML objects are downloaded (default ./temp)
	INGEST_WATCH                   re-ingest when the local bucket changes (local backend)
	STORAGE_BREAKER_FAILURES       consecutive bucket failures that open the circuit (default 5)
	API_PAGE_SIZE                  flights per page (default 15)
	LOG_LEVEL, LOG_FORMAT          zerolog level and json/console output

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within HTTP_SHUTDOWN_TIMEOUT and the ingestion run is canceled.

# Example Usage

Serve a local copy of the bucket:

	export STORAGE_BACKEND=local
	export STORAGE_LOCAL_DIR=./bucket
	./skytally

Read from Google Cloud Storage through its S3 interoperability API:

	export STORAGE_BACKEND=s3
	export STORAGE_BUCKET=flight-data
	export STORAGE_ENDPOINT=https://storage.googleapis.com
	export STORAGE_REGION=auto
	export STORAGE_ACCESS_KEY_ID=GOOG...
	export STORAGE_SECRET_ACCESS_KEY=...
	./skytally
*/
package main
