// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/models"
	"github.com/tomtom215/skytally/internal/pagination"
)

// Plain-text error bodies of the flight data routes.
const (
	msgAirportNotFound   = "Airport not found"
	msgPassengersFailed  = "Error retrieving passengers for flight"
	msgFlightsProcessing = "Error processing flight data"
)

// pathParam returns a decoded chi URL parameter.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// Airport returns the coordinates of the first airport whose name matches
// exactly.
func (h *Handler) Airport(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	airport, ok := h.store.Snapshot().AirportByName(name)
	if !ok {
		respondText(w, http.StatusNotFound, msgAirportNotFound)
		return
	}

	writeJSON(w, r, http.StatusOK, models.AirportSummary{
		Name:      airport.Name,
		Latitude:  airport.Lat,
		Longitude: airport.Lon,
	})
}

// Passengers returns the passengers holding a ticket on the flight, in
// ticket order. Tickets whose passenger is unknown are left out.
func (h *Handler) Passengers(w http.ResponseWriter, r *http.Request) {
	flightNumber := pathParam(r, "flightNumber")

	// Recoverer replies with an empty 500; this route replies with its
	// plain-text message.
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(r.Context()).Error().
				Interface("panic", rec).
				Str("flight_number", flightNumber).
				Msg("Passenger lookup failed")
			respondText(w, http.StatusInternalServerError, msgPassengersFailed)
		}
	}()

	passengers := h.store.Snapshot().PassengersForFlight(flightNumber)
	writeJSON(w, r, http.StatusOK, passengers)
}

// Flights assembles, enriches and paginates the flight list.
func (h *Handler) Flights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.Ctx(ctx)
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	if err := h.waitForDataset(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn().Err(err).Msg("Serving flights before every reference collection has loaded")
	}

	flights, err := h.flights.Assemble(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Flight assembly failed")
		respondText(w, http.StatusInternalServerError, msgFlightsProcessing)
		return
	}

	snap := h.store.Snapshot()
	result, err := h.engine.Enrich(ctx, flights, snap)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error().Err(err).Uint64("dataset_version", snap.Version).Msg("Flight enrichment failed")
			respondText(w, http.StatusInternalServerError, msgFlightsProcessing)
		}
		return
	}
	logger.Debug().
		Uint64("dataset_version", snap.Version).
		Int("assembled", len(flights)).
		Int("enriched", len(result.Flights)).
		Int("skipped", len(result.Skipped)).
		Int("page", page).
		Msg("Flights enriched")

	total := len(result.Flights)
	writeJSON(w, r, http.StatusOK, models.FlightPage{
		CurrentPage: page,
		PageSize:    h.pageSize,
		TotalItems:  total,
		TotalPages:  pagination.TotalPages(total, h.pageSize),
		Flights:     pagination.Paginate(result.Flights, page, h.pageSize),
		Skipped:     result.Skipped,
	})
}

// waitForDataset blocks up to datasetWait for every reference collection.
func (h *Handler) waitForDataset(ctx context.Context) error {
	if h.store.IsReady(dataset.AllCollections...) {
		return nil
	}
	if h.datasetWait <= 0 {
		return errors.New("reference collections not loaded")
	}

	waitCtx, cancel := context.WithTimeout(ctx, h.datasetWait)
	defer cancel()
	return h.store.WaitReady(waitCtx, dataset.AllCollections...)
}
