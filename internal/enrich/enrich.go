// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package enrich joins raw flight records with aircraft, airports, tickets
// and passengers, deriving the average passenger age, the great-circle
// distance and the passenger count.
package enrich

import (
	"context"

	"github.com/tomtom215/skytally/internal/birthdate"
	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/geo"
	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/metrics"
	"github.com/tomtom215/skytally/internal/models"
)

// UnknownAircraft is reported when a flight's aircraft is not on file.
const UnknownAircraft = "Unknown"

// Result is the outcome of enriching a list of flights, in input order.
type Result struct {
	Flights []models.EnrichedFlight
	// Skipped lists flights whose origin or destination airport is unknown.
	Skipped []models.SkippedFlight
}

// Engine enriches flights against a dataset snapshot.
type Engine struct {
	ages *birthdate.Calculator
}

// NewEngine creates an Engine. A nil calculator uses the wall clock.
func NewEngine(ages *birthdate.Calculator) *Engine {
	if ages == nil {
		ages = birthdate.NewCalculator(nil)
	}
	return &Engine{ages: ages}
}

// Enrich enriches every flight. Flights referencing an unknown airport are
// left out of Flights and listed in Skipped. Cancellation of ctx stops the
// run and returns ctx.Err().
func (e *Engine) Enrich(ctx context.Context, flights []models.Flight, snap *dataset.Snapshot) (*Result, error) {
	res := &Result{
		Flights: make([]models.EnrichedFlight, 0, len(flights)),
		Skipped: []models.SkippedFlight{},
	}

	for _, f := range flights {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		enriched, reason := e.enrichOne(f, snap)
		if reason != "" {
			res.Skipped = append(res.Skipped, models.SkippedFlight{FlightNumber: f.FlightNumber(), Reason: reason})
			metrics.RecordEnrichSkip(reason)
			continue
		}
		res.Flights = append(res.Flights, enriched)
	}

	if len(res.Skipped) > 0 {
		logging.Ctx(ctx).Warn().
			Str("component", "enrich").
			Int("skipped", len(res.Skipped)).
			Int("enriched", len(res.Flights)).
			Msg("Flights skipped during enrichment")
	}
	return res, nil
}

func (e *Engine) enrichOne(f models.Flight, snap *dataset.Snapshot) (models.EnrichedFlight, string) {
	origin, ok := snap.AirportByIATA(f.OriginIATA())
	if !ok {
		return models.EnrichedFlight{}, models.SkipOriginAirportNotFound
	}
	destination, ok := snap.AirportByIATA(f.DestinationIATA())
	if !ok {
		return models.EnrichedFlight{}, models.SkipDestinationAirportNotFound
	}

	aircraftName := UnknownAircraft
	if ac, ok := snap.AircraftByID(f.AircraftID()); ok {
		aircraftName = ac.Name
	}

	passengers := snap.PassengersForFlight(f.FlightNumber())

	return models.EnrichedFlight{
		Flight:             f,
		OriginAirport:      origin.Name,
		DestinationAirport: destination.Name,
		AverageAge:         e.AverageAge(passengers),
		Distance:           geo.HaversineKm(origin.Lat, origin.Lon, destination.Lat, destination.Lon),
		AircraftName:       aircraftName,
		PassengerCount:     len(passengers),
	}, ""
}

// AverageAge is the mean age of the passengers whose birth date parses, or
// nil when there are none.
func (e *Engine) AverageAge(passengers []models.Passenger) *float64 {
	sum, n := 0, 0
	for _, p := range passengers {
		if age, ok := e.ages.Age(p.BirthDate); ok {
			sum += age
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}
