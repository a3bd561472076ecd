// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package dataset

import "github.com/tomtom215/skytally/internal/models"

// Snapshot is an immutable view of every reference collection at one
// version. Callers must not modify the slices.
//
// Lookups return the first record with a matching key.
type Snapshot struct {
	Version uint64

	Airports   []models.Airport
	Aircraft   []models.Aircraft
	Tickets    []models.Ticket
	Passengers []models.Passenger

	airportByIATA   map[string]int
	airportByName   map[string]int
	aircraftByID    map[string]int
	ticketsByFlight map[string][]int
	passengerByID   map[string]int
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		airportByIATA:   map[string]int{},
		airportByName:   map[string]int{},
		aircraftByID:    map[string]int{},
		ticketsByFlight: map[string][]int{},
		passengerByID:   map[string]int{},
	}
}

// clone copies the header; collections and indexes are shared until a
// replacement swaps them out.
func (s *Snapshot) clone() *Snapshot {
	c := *s
	return &c
}

// Len returns the number of records in a collection.
func (s *Snapshot) Len(c Collection) int {
	switch c {
	case Airports:
		return len(s.Airports)
	case Aircraft:
		return len(s.Aircraft)
	case Tickets:
		return len(s.Tickets)
	case Passengers:
		return len(s.Passengers)
	}
	return 0
}

// AirportByIATA looks up an airport by IATA code.
func (s *Snapshot) AirportByIATA(code string) (models.Airport, bool) {
	i, ok := s.airportByIATA[code]
	if !ok {
		return models.Airport{}, false
	}
	return s.Airports[i], true
}

// AirportByName looks up an airport by exact display name.
func (s *Snapshot) AirportByName(name string) (models.Airport, bool) {
	i, ok := s.airportByName[name]
	if !ok {
		return models.Airport{}, false
	}
	return s.Airports[i], true
}

// AircraftByID looks up an aircraft by ID.
func (s *Snapshot) AircraftByID(id string) (models.Aircraft, bool) {
	i, ok := s.aircraftByID[id]
	if !ok {
		return models.Aircraft{}, false
	}
	return s.Aircraft[i], true
}

// PassengerByID looks up a passenger by ID.
func (s *Snapshot) PassengerByID(id string) (models.Passenger, bool) {
	i, ok := s.passengerByID[id]
	if !ok {
		return models.Passenger{}, false
	}
	return s.Passengers[i], true
}

// TicketsForFlight returns the tickets issued for a flight in load order.
func (s *Snapshot) TicketsForFlight(flightNumber string) []models.Ticket {
	idx := s.ticketsByFlight[flightNumber]
	if len(idx) == 0 {
		return nil
	}
	out := make([]models.Ticket, len(idx))
	for i, pos := range idx {
		out[i] = s.Tickets[pos]
	}
	return out
}

// PassengersForFlight resolves the tickets of a flight to passengers.
// Tickets whose passenger is unknown are dropped. The result is never nil.
func (s *Snapshot) PassengersForFlight(flightNumber string) []models.Passenger {
	tickets := s.TicketsForFlight(flightNumber)
	out := make([]models.Passenger, 0, len(tickets))
	for _, t := range tickets {
		if p, ok := s.PassengerByID(t.PassengerID); ok {
			out = append(out, p)
		}
	}
	return out
}
