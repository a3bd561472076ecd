// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

/*
Package models defines the data structures shared across Skytally.

Reference records (loaded from the bucket):

  - Airport: CSV row keyed by IATA code, with coordinates
  - Aircraft: XML row keyed by aircraft ID
  - Ticket: CSV row linking a flight number to a passenger ID
  - Passenger: YAML entry with a free-text Spanish birth date

Flight records:

  - Flight: one entry of a monthly flight_data.json file. Flights are kept as
    ordered JSON objects (Object) so that fields the service does not know
    about survive the assembler's in-place rewrite unchanged and in their
    original position.
  - EnrichedFlight: a Flight plus the derived fields computed by the
    enrichment engine (airport names, distance, average age, aircraft name,
    passenger count).
  - SkippedFlight: a flight dropped from enrichment, with the reason.

API payloads:

  - FlightPage: paginated response of GET /api/flights
  - AirportSummary: response of GET /api/airport/{name}
*/
package models
