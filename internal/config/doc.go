// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

/*
Package config loads Skytally configuration with Koanf v2.

Sources are layered: struct defaults, then an optional YAML file
(CONFIG_PATH, ./config.yaml, /etc/skytally/config.yaml), then environment
variables. Only the variables listed in the env mapping are read.

Example config.yaml:

	storage:
	  backend: s3
	  bucket: 2023-2-tarea3
	  endpoint: https://storage.googleapis.com
	  region: auto
	ingest:
	  staging_dir: ./temp
	  concurrency: 4
	api:
	  page_size: 15
	  dataset_wait: 2s
	  cors_origins: ["*"]

Common environment variables:

	HTTP_PORT            server.port (default 3000)
	STORAGE_BACKEND      s3 | local
	STORAGE_BUCKET       bucket name
	STORAGE_ENDPOINT     S3-compatible endpoint override
	STORAGE_LOCAL_DIR    bucket root for the local backend
	INGEST_STAGING_DIR   download and flight tree root (default ./temp)
	CORS_ORIGINS         comma-separated allowed origins
	LOG_LEVEL, LOG_FORMAT
*/
package config
