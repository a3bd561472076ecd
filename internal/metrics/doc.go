// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3000/metrics

# Available Metrics

Ingestion:
  - skytally_ingest_files_total{format,outcome}
  - skytally_ingest_file_duration_seconds{format}
  - skytally_ingest_run_duration_seconds
  - skytally_ingest_last_success_timestamp

Datasets:
  - skytally_dataset_records{collection}
  - skytally_dataset_replacements_total{collection}
  - skytally_dataset_version

Assembly and enrichment:
  - skytally_assembly_duration_seconds
  - skytally_assembly_records
  - skytally_assembly_failures_total
  - skytally_assembly_shared_total
  - skytally_enrich_skipped_total{reason}

Bucket circuit breaker:
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}
*/
package metrics
