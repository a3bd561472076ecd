// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func decodeFlight(t *testing.T, raw string) Flight {
	t.Helper()
	var f Flight
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return f
}

func TestFlight_TagInPlace(t *testing.T) {
	t.Parallel()

	f := decodeFlight(t, `{"flightNumber":"F1","year":"1999","gate":12}`)
	for range 2 {
		if err := f.Tag("2023", "01"); err != nil {
			t.Fatalf("Tag() error = %v", err)
		}
	}

	out, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"flightNumber":"F1","year":"2023","gate":12,"month":"01"}`
	if string(out) != want {
		t.Errorf("tagged flight = %s, want %s", out, want)
	}
	if f.Year() != "2023" || f.Month() != "01" {
		t.Errorf("Year() = %q, Month() = %q", f.Year(), f.Month())
	}
}

func TestEnrichedFlight_MarshalJSON(t *testing.T) {
	t.Parallel()

	age := 28.5
	tests := []struct {
		name string
		raw  string
		avg  *float64
		want string
	}{
		{
			name: "derived members appended",
			raw:  `{"flightNumber":"F1","airline":"Sky"}`,
			avg:  &age,
			want: `{"flightNumber":"F1","airline":"Sky","originAirport":"Alpha","destinationAirport":"Bravo","averageAge":28.5,"distance":12.5,"aircraftName":"Unknown","passengerCount":2}`,
		},
		{
			name: "existing member replaced in place",
			raw:  `{"distance":"far","flightNumber":"F1"}`,
			avg:  nil,
			want: `{"distance":12.5,"flightNumber":"F1","originAirport":"Alpha","destinationAirport":"Bravo","averageAge":null,"aircraftName":"Unknown","passengerCount":2}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := EnrichedFlight{
				Flight:             decodeFlight(t, tt.raw),
				OriginAirport:      "Alpha",
				DestinationAirport: "Bravo",
				AverageAge:         tt.avg,
				Distance:           12.5,
				AircraftName:       "Unknown",
				PassengerCount:     2,
			}
			out, err := json.Marshal(e)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("got  %s\nwant %s", out, tt.want)
			}
			if e.Flight.Attrs.Has("originAirport") {
				t.Error("MarshalJSON modified the raw flight")
			}
		})
	}
}
