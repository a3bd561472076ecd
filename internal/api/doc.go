// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

/*
Package api serves the flight data over HTTP using the chi router.

# Endpoints

Flight data (rate limited, bare JSON bodies, plain-text errors):

	GET /api/airport/{name}           airport coordinates by exact name
	GET /api/passengers/{flightNumber} passengers holding a ticket on the flight
	GET /api/flights?page=N           enriched flights, 15 per page

Operations (wrapped in models.APIResponse):

	GET /api/health/live   liveness probe
	GET /api/health/ready  503 until every reference collection has loaded; bucket breaker state
	GET /api/datasets      per-collection counts, load times and version
	GET /api/ingest        running flag, loadable formats, last ingestion report
	GET /metrics           Prometheus exposition

# Middleware

Every route runs behind request ID tagging, real IP extraction, panic
recovery, CORS (go-chi/cors), Prometheus instrumentation and gzip for large
bodies. The flight data routes and /api/datasets and /api/ingest get per-IP
rate limiting (go-chi/httprate), counted separately as the "data" and "ops"
groups. Health probes and /metrics are never limited.

# Flights

Each /api/flights request waits up to api.dataset_wait for the reference
collections, assembles the staged flight tree (tagging and rewriting the
month files), enriches against one dataset snapshot and paginates. Flights
whose airports are unknown are reported in the "skipped" member instead of
failing the page.
*/
package api
