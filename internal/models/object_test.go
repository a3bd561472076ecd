// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package models

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
)

func TestObject_PreservesOrderAndUnknownFields(t *testing.T) {
	t.Parallel()

	input := `{"flightNumber":"F1","zeta":{"nested":[1,2]},"aircraftID":"A9","alpha":3.50}`

	var obj Object
	if err := json.Unmarshal([]byte(input), &obj); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	out, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != input {
		t.Errorf("round trip changed object:\n got %s\nwant %s", out, input)
	}
}

func TestObject_SetReplacesInPlace(t *testing.T) {
	t.Parallel()

	var obj Object
	if err := json.Unmarshal([]byte(`{"month":"1","flightNumber":"F1"}`), &obj); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := obj.SetValue("month", "01"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := obj.SetValue("year", "2023"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	out, _ := json.Marshal(obj)
	want := `{"month":"01","flightNumber":"F1","year":"2023"}`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestObject_DuplicateKeysLastValueWins(t *testing.T) {
	t.Parallel()

	var obj Object
	if err := json.Unmarshal([]byte(`{"a":1,"b":2,"a":3}`), &obj); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	out, _ := json.Marshal(obj)
	if string(out) != `{"a":3,"b":2}` {
		t.Errorf("got %s", out)
	}
}

func TestObject_String(t *testing.T) {
	t.Parallel()

	var obj Object
	if err := json.Unmarshal([]byte(`{"s":"LAX","n":42,"b":true,"z":null,"o":{"x":1}}`), &obj); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	tests := map[string]string{
		"s":       "LAX",
		"n":       "42",
		"b":       "true",
		"z":       "",
		"o":       "",
		"missing": "",
	}
	for key, want := range tests {
		if got := obj.String(key); got != want {
			t.Errorf("String(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestObject_RejectsNonObject(t *testing.T) {
	t.Parallel()

	var obj Object
	err := obj.UnmarshalJSON([]byte(`[1,2,3]`))
	if !errors.Is(err, ErrNotObject) {
		t.Errorf("UnmarshalJSON(array) error = %v, want ErrNotObject", err)
	}
}

func TestFlight_TagIsIdempotent(t *testing.T) {
	t.Parallel()

	var f Flight
	if err := json.Unmarshal([]byte(`{"flightNumber":"F1","extra":"keep"}`), &f); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := f.Tag("2023", "03"); err != nil {
		t.Fatal(err)
	}
	first, _ := json.Marshal(f)
	if err := f.Tag("2023", "03"); err != nil {
		t.Fatal(err)
	}
	second, _ := json.Marshal(f)

	if string(first) != string(second) {
		t.Errorf("second tag changed record:\n%s\n%s", first, second)
	}
	want := `{"flightNumber":"F1","extra":"keep","month":"03","year":"2023"}`
	if string(first) != want {
		t.Errorf("got %s, want %s", first, want)
	}
	if f.Month() != "03" || f.Year() != "2023" {
		t.Errorf("Month/Year = %q/%q", f.Month(), f.Year())
	}
}

func TestPassenger_JSONKeepsSourceFields(t *testing.T) {
	t.Parallel()

	var p Passenger
	input := `{"passengerID":"P1","name":"Ana","birthDate":"15 de marzo de 1990","seat":"12A"}`
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatal(err)
	}
	if p.PassengerID != "P1" || p.BirthDate != "15 de marzo de 1990" {
		t.Errorf("decoded %+v", p)
	}
	out, _ := json.Marshal(p)
	if string(out) != input {
		t.Errorf("got %s, want %s", out, input)
	}
}
