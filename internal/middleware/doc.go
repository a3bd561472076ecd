// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

/*
Package middleware provides the http.HandlerFunc middleware used by the API
router.

Key Components:

  - RequestID: accepts or generates X-Request-ID and stores it in the request
    context so logging.Ctx tags every log line of the request
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled by
    chi route pattern
  - Compression: gzip for responses above MinCompressSize

The API router adapts these to chi with a small wrapper:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.Compression))

RequestID must run first so later middleware and handlers see the ID.
*/
package middleware
