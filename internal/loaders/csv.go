// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package loaders

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/models"
	"github.com/tomtom215/skytally/internal/objectstore"
	"github.com/tomtom215/skytally/internal/validation"
)

// CSV object base names that map to collections.
const (
	AirportsCSV = "airports.csv"
	TicketsCSV  = "tickets.csv"
)

// CSVLoader streams CSV objects. airports.csv replaces the airport
// collection and tickets.csv the ticket collection; other CSV objects are
// parsed and discarded.
type CSVLoader struct {
	deps Deps
}

// Format implements Loader.
func (l *CSVLoader) Format() Format { return FormatCSV }

// Load implements Loader.
func (l *CSVLoader) Load(ctx context.Context, obj objectstore.Object) (Result, error) {
	rc, err := l.deps.Bucket.Open(ctx, obj.Name)
	if err != nil {
		return Result{}, fmt.Errorf("stream %s: %w", obj.Name, err)
	}
	defer rc.Close()

	rows, err := readCSV(rc)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", obj.Name, err)
	}

	logger := logging.Ctx(ctx).With().Str("component", "loader").Str("file", obj.Name).Logger()

	switch obj.Base() {
	case AirportsCSV:
		airports, dropped := airportsFromRows(rows)
		l.deps.Store.ReplaceAirports(obj.Name, airports)
		logger.Info().Int("records", len(airports)).Int("dropped", dropped).Msg("Airports data loaded")
		return Result{Collection: string(dataset.Airports), Records: len(airports), Dropped: dropped}, nil

	case TicketsCSV:
		tickets, dropped := ticketsFromRows(rows)
		l.deps.Store.ReplaceTickets(obj.Name, tickets)
		logger.Info().Int("records", len(tickets)).Int("dropped", dropped).Msg("Tickets data loaded")
		return Result{Collection: string(dataset.Tickets), Records: len(tickets), Dropped: dropped}, nil

	default:
		logger.Debug().Int("rows", len(rows)).Msg("CSV file has no collection, ignoring")
		return Result{Records: len(rows)}, nil
	}
}

// readCSV parses a header row followed by data rows into per-row maps keyed
// by header name. Short rows leave trailing columns absent; extra cells
// beyond the header are ignored.
func readCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i >= len(record) {
				break
			}
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var airportColumns = map[string]bool{"name": true, "airportIATA": true, "lat": true, "lon": true}

func airportsFromRows(rows []map[string]string) ([]models.Airport, int) {
	airports := make([]models.Airport, 0, len(rows))
	dropped := 0

	for i, row := range rows {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row["lat"]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row["lon"]), 64)
		if latErr != nil || lonErr != nil {
			logging.Warn().Int("row", i+2).Str("iata", row["airportIATA"]).Msg("Dropping airport with non-numeric coordinates")
			dropped++
			continue
		}

		a := models.Airport{
			Name:  row["name"],
			IATA:  strings.TrimSpace(row["airportIATA"]),
			Lat:   lat,
			Lon:   lon,
			Extra: extraColumns(row, airportColumns),
		}
		if verr := validation.ValidateStruct(&a); verr != nil {
			logging.Warn().Int("row", i+2).Strs("fields", verr.Fields()).Msg("Dropping invalid airport row")
			dropped++
			continue
		}
		airports = append(airports, a)
	}
	return airports, dropped
}

var ticketColumns = map[string]bool{"flightNumber": true, "passengerID": true}

func ticketsFromRows(rows []map[string]string) ([]models.Ticket, int) {
	tickets := make([]models.Ticket, 0, len(rows))
	dropped := 0

	for i, row := range rows {
		t := models.Ticket{
			FlightNumber: strings.TrimSpace(row["flightNumber"]),
			PassengerID:  strings.TrimSpace(row["passengerID"]),
			Extra:        extraColumns(row, ticketColumns),
		}
		if verr := validation.ValidateStruct(&t); verr != nil {
			logging.Warn().Int("row", i+2).Strs("fields", verr.Fields()).Msg("Dropping invalid ticket row")
			dropped++
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, dropped
}

func extraColumns(row map[string]string, known map[string]bool) map[string]string {
	var extra map[string]string
	for k, v := range row {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[k] = v
	}
	return extra
}
