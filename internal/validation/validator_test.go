// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/skytally/internal/models"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// Record Validation Tests
// ===================================================================================================

func TestValidateStruct_Airport(t *testing.T) {
	tests := []struct {
		name       string
		input      models.Airport
		wantFields []string
	}{
		{
			name:  "valid airport",
			input: models.Airport{Name: "Arturo Merino Benitez", IATA: "SCL", Lat: -33.393, Lon: -70.7858},
		},
		{
			name:  "origin coordinates",
			input: models.Airport{Name: "Null Island", IATA: "NUL", Lat: 0, Lon: 0},
		},
		{
			name:       "blank IATA",
			input:      models.Airport{Name: "Somewhere", IATA: "   ", Lat: 1, Lon: 1},
			wantFields: []string{"IATA"},
		},
		{
			name:       "missing name and IATA",
			input:      models.Airport{Lat: 1, Lon: 1},
			wantFields: []string{"Name", "IATA"},
		},
		{
			name:       "latitude out of range",
			input:      models.Airport{Name: "Bad", IATA: "BAD", Lat: 91, Lon: 0},
			wantFields: []string{"Lat"},
		},
		{
			name:       "longitude out of range",
			input:      models.Airport{Name: "Bad", IATA: "BAD", Lat: 0, Lon: -181},
			wantFields: []string{"Lon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.input)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Errorf("ValidateStruct() returned unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}
			if got := strings.Join(verr.Fields(), ","); got != strings.Join(tt.wantFields, ",") {
				t.Errorf("failed fields = %s, want %s", got, strings.Join(tt.wantFields, ","))
			}
		})
	}
}

func TestValidateStruct_Ticket(t *testing.T) {
	if verr := ValidateStruct(&models.Ticket{FlightNumber: "F1", PassengerID: "P1"}); verr != nil {
		t.Errorf("valid ticket rejected: %v", verr)
	}

	verr := ValidateStruct(&models.Ticket{FlightNumber: "F1"})
	if verr == nil {
		t.Fatal("ticket without passenger accepted")
	}
	errs := verr.Errors()
	if len(errs) != 1 || errs[0].Field() != "PassengerID" || errs[0].Tag() != "notblank" {
		t.Errorf("unexpected errors: %+v", errs)
	}
	if !strings.Contains(verr.Error(), "PassengerID must not be blank") {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestValidateStruct_Passenger(t *testing.T) {
	if verr := ValidateStruct(&models.Passenger{PassengerID: "P1"}); verr != nil {
		t.Errorf("passenger without birth date rejected: %v", verr)
	}
	if verr := ValidateStruct(&models.Passenger{BirthDate: "1 de enero de 1990"}); verr == nil {
		t.Error("passenger without ID accepted")
	}
}

// ===================================================================================================
// Error Message Translation Tests
// ===================================================================================================

type settings struct {
	Port        int           `validate:"gte=1,lte=65535"`
	Backend     string        `validate:"oneof=s3 local"`
	Timeout     time.Duration `validate:"gt=0"`
	StagingDir  string        `validate:"notblank"`
	Origins     []string      `validate:"min=1"`
	Label       string        `validate:"omitempty,min=3"`
	Concurrency int           `validate:"min=1"`
}

func TestErrorMessages(t *testing.T) {
	verr := ValidateStruct(&settings{Port: 70000, Backend: "gcs", StagingDir: " ", Label: "ab"})
	if verr == nil {
		t.Fatal("expected validation errors")
	}

	want := []string{
		"Port must be less than or equal to 65535",
		"Backend must be one of: s3 local",
		"Timeout must be greater than 0",
		"StagingDir must not be blank",
		"Origins must contain at least 1 entries",
		"Label must be at least 3 characters",
		"Concurrency must be at least 1",
	}
	msg := verr.Error()
	for _, w := range want {
		if !strings.Contains(msg, w) {
			t.Errorf("Error() = %q, missing %q", msg, w)
		}
	}
	if len(verr.Errors()) != len(want) {
		t.Errorf("got %d errors, want %d", len(verr.Errors()), len(want))
	}
}

func TestValidationError_MessageFor(t *testing.T) {
	verr := ValidateStruct(&settings{
		Port: 0, Backend: "s3", Timeout: time.Second, StagingDir: "/tmp",
		Origins: []string{"*"}, Concurrency: 1,
	})
	if verr == nil || len(verr.Errors()) != 1 {
		t.Fatalf("ValidateStruct() = %v, want one error", verr)
	}

	e := verr.Errors()[0]
	if e.Namespace() != "settings.Port" {
		t.Errorf("Namespace() = %q, want settings.Port", e.Namespace())
	}
	if got, want := e.MessageFor("HTTP_PORT"), "HTTP_PORT must be greater than or equal to 1"; got != want {
		t.Errorf("MessageFor() = %q, want %q", got, want)
	}
	if got := e.Error(); got != "Port must be greater than or equal to 1" {
		t.Errorf("Error() = %q", got)
	}
}
