// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package models

// Airport is a row of airports.csv.
type Airport struct {
	Name string  `json:"name" validate:"notblank"`
	IATA string  `json:"airportIATA" validate:"notblank"`
	Lat  float64 `json:"lat" validate:"latitude"`
	Lon  float64 `json:"lon" validate:"longitude"`

	// Extra holds any additional CSV columns.
	Extra map[string]string `json:"-"`
}

// Aircraft is a <row> element of the aircraft XML document.
type Aircraft struct {
	ID   string `json:"aircraftID" validate:"notblank"`
	Name string `json:"name"`

	// Attrs holds any additional child elements by tag name.
	Attrs map[string]string `json:"-"`
}

// Ticket is a row of tickets.csv.
type Ticket struct {
	FlightNumber string `json:"flightNumber" validate:"notblank"`
	PassengerID  string `json:"passengerID" validate:"notblank"`

	Extra map[string]string `json:"-"`
}

// Passenger is one entry of the passengers YAML document.
//
// PassengerID and BirthDate are extracted for joins; Attrs keeps the complete
// source entry and is what gets served over the API.
type Passenger struct {
	PassengerID string `validate:"notblank"`
	BirthDate   string

	Attrs Object
}

// MarshalJSON emits the passenger as it appeared in the source document.
func (p Passenger) MarshalJSON() ([]byte, error) {
	if p.Attrs != nil {
		return p.Attrs.MarshalJSON()
	}
	obj := Object{}
	if err := obj.SetValue("passengerID", p.PassengerID); err != nil {
		return nil, err
	}
	if p.BirthDate != "" {
		if err := obj.SetValue("birthDate", p.BirthDate); err != nil {
			return nil, err
		}
	}
	return obj.MarshalJSON()
}

// UnmarshalJSON reads a passenger object, keeping every member.
func (p *Passenger) UnmarshalJSON(data []byte) error {
	var obj Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = Passenger{
		PassengerID: obj.String("passengerID"),
		BirthDate:   obj.String("birthDate"),
		Attrs:       obj,
	}
	return nil
}
