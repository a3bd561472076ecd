// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package models

import (
	"fmt"
)

// Flight field names as they appear in flight_data.json.
const (
	FieldFlightNumber    = "flightNumber"
	FieldAircraftID      = "aircraftID"
	FieldOriginIATA      = "originIATA"
	FieldDestinationIATA = "destinationIATA"
	FieldMonth           = "month"
	FieldYear            = "year"
)

// Flight is a raw flight record. All members of the source object are kept,
// in order, so a decode/encode cycle only changes what was explicitly set.
type Flight struct {
	Attrs Object
}

func (f Flight) FlightNumber() string    { return f.Attrs.String(FieldFlightNumber) }
func (f Flight) AircraftID() string      { return f.Attrs.String(FieldAircraftID) }
func (f Flight) OriginIATA() string      { return f.Attrs.String(FieldOriginIATA) }
func (f Flight) DestinationIATA() string { return f.Attrs.String(FieldDestinationIATA) }
func (f Flight) Month() string           { return f.Attrs.String(FieldMonth) }
func (f Flight) Year() string            { return f.Attrs.String(FieldYear) }

// Tag sets the month and year members. Existing members are overwritten in
// place, so tagging twice with the same values is a no-op.
func (f *Flight) Tag(year, month string) error {
	if err := f.Attrs.SetValue(FieldMonth, month); err != nil {
		return err
	}
	return f.Attrs.SetValue(FieldYear, year)
}

// MarshalJSON implements json.Marshaler.
func (f Flight) MarshalJSON() ([]byte, error) {
	if f.Attrs == nil {
		return []byte("{}"), nil
	}
	return f.Attrs.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flight) UnmarshalJSON(data []byte) error {
	var obj Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("flight record: %w", err)
	}
	f.Attrs = obj
	return nil
}

// EnrichedFlight is a Flight joined with reference data.
type EnrichedFlight struct {
	Flight Flight

	OriginAirport      string
	DestinationAirport string
	// AverageAge is nil when no passenger on the flight has a usable birth date.
	AverageAge     *float64
	Distance       float64
	AircraftName   string
	PassengerCount int
}

// FlightNumber returns the flight number of the underlying record.
func (e EnrichedFlight) FlightNumber() string { return e.Flight.FlightNumber() }

// MarshalJSON emits the raw flight members followed by the derived fields.
// A derived field whose name already exists in the raw record replaces it in
// place. The airline member is emitted only as carried by the raw record.
func (e EnrichedFlight) MarshalJSON() ([]byte, error) {
	obj := e.Flight.Attrs.Clone()
	if obj == nil {
		obj = Object{}
	}

	derived := []struct {
		key   string
		value any
	}{
		{"originAirport", e.OriginAirport},
		{"destinationAirport", e.DestinationAirport},
		{"averageAge", e.AverageAge},
		{"distance", e.Distance},
		{"aircraftName", e.AircraftName},
		{"passengerCount", e.PassengerCount},
	}
	for _, d := range derived {
		if err := obj.SetValue(d.key, d.value); err != nil {
			return nil, err
		}
	}
	return obj.MarshalJSON()
}

// Skip reasons reported for flights that cannot be enriched.
const (
	SkipOriginAirportNotFound      = "origin_airport_not_found"
	SkipDestinationAirportNotFound = "destination_airport_not_found"
)

// SkippedFlight identifies a flight dropped during enrichment.
type SkippedFlight struct {
	FlightNumber string `json:"flightNumber"`
	Reason       string `json:"reason"`
}
