// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package models

import "time"

// FlightPage is the response body of GET /api/flights.
type FlightPage struct {
	CurrentPage int              `json:"currentPage"`
	PageSize    int              `json:"pageSize"`
	TotalItems  int              `json:"totalItems"`
	TotalPages  int              `json:"totalPages"`
	Flights     []EnrichedFlight `json:"flights"`
	Skipped     []SkippedFlight  `json:"skipped"`
}

// AirportSummary is the response body of GET /api/airport/{name}.
type AirportSummary struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CollectionStatus describes one reference collection held in memory.
type CollectionStatus struct {
	Name     string     `json:"name"`
	Loaded   bool       `json:"loaded"`
	Count    int        `json:"count"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
	Source   string     `json:"source,omitempty"`
}

// DatasetStatus is the response body of GET /api/datasets.
type DatasetStatus struct {
	Version     uint64             `json:"version"`
	Ready       bool               `json:"ready"`
	Collections []CollectionStatus `json:"collections"`
}

// APIResponse wraps the operational endpoints (health, datasets, ingest).
// The flight data endpoints return their bodies bare.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata is attached to every APIResponse.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// HealthStatus is the data of the liveness and readiness probes.
type HealthStatus struct {
	Alive         bool    `json:"alive"`
	Ready         bool    `json:"ready"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	// Collections and Bucket are reported by the readiness probe only.
	Collections []CollectionStatus `json:"collections,omitempty"`
	Bucket      *BucketStatus      `json:"bucket,omitempty"`
}

// BucketStatus is the circuit breaker state of the source bucket.
type BucketStatus struct {
	Name  string `json:"name"`
	State string `json:"state"`
}
