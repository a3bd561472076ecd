// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/ingest"
	"github.com/tomtom215/skytally/internal/loaders"
	"github.com/tomtom215/skytally/internal/models"
)

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondAPI(w, r, http.StatusOK, "alive", models.HealthStatus{
		Alive:         true,
		Ready:         h.store.IsReady(dataset.AllCollections...),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 503 until every reference collection has loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.store.Status()

	code, state := http.StatusOK, "ready"
	if !status.Ready {
		code, state = http.StatusServiceUnavailable, "not_ready"
	}

	health := models.HealthStatus{
		Alive:         true,
		Ready:         status.Ready,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Collections:   status.Collections,
	}
	if h.bucket != nil {
		health.Bucket = &models.BucketStatus{
			Name:  h.bucket.Name(),
			State: h.bucket.State(),
		}
	}
	respondAPI(w, r, code, state, health)
}

// Datasets reports what the dataset store holds.
func (h *Handler) Datasets(w http.ResponseWriter, r *http.Request) {
	respondAPI(w, r, http.StatusOK, "success", h.store.Status())
}

// ingestStatus is the data of GET /api/ingest.
type ingestStatus struct {
	Running bool             `json:"running"`
	Formats []loaders.Format `json:"formats"`
	LastRun *ingest.Report   `json:"last_run,omitempty"`
}

// IngestReport returns the ingestion state and the last completed run.
// The status is "running" while a run is in progress and "pending" until
// the first run completes.
func (h *Handler) IngestReport(w http.ResponseWriter, r *http.Request) {
	if h.ingest == nil {
		respondAPI(w, r, http.StatusOK, "pending", nil)
		return
	}

	data := ingestStatus{
		Running: h.ingest.IsRunning(),
		Formats: h.ingest.Formats(),
		LastRun: h.ingest.LastReport(),
	}
	state := "success"
	switch {
	case data.Running:
		state = "running"
	case data.LastRun == nil:
		state = "pending"
	}
	respondAPI(w, r, http.StatusOK, state, data)
}
