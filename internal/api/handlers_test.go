// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skytally/internal/assembler"
	"github.com/tomtom215/skytally/internal/birthdate"
	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/enrich"
	"github.com/tomtom215/skytally/internal/ingest"
	"github.com/tomtom215/skytally/internal/loaders"
	"github.com/tomtom215/skytally/internal/models"
)

type stubFlights struct {
	flights []models.Flight
	err     error
}

func (s *stubFlights) Assemble(ctx context.Context) ([]models.Flight, error) {
	return s.flights, s.err
}

type stubReporter struct {
	report  *ingest.Report
	running bool
}

func (s *stubReporter) LastReport() *ingest.Report { return s.report }
func (s *stubReporter) IsRunning() bool            { return s.running }
func (s *stubReporter) Formats() []loaders.Format {
	return []loaders.Format{loaders.FormatCSV, loaders.FormatJSON}
}

type stubBucket struct{ state string }

func (s *stubBucket) Name() string  { return "flights-bucket" }
func (s *stubBucket) State() string { return s.state }

func mustFlight(t *testing.T, raw string) models.Flight {
	t.Helper()
	var f models.Flight
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal flight: %v", err)
	}
	return f
}

func loadedStore() *dataset.Store {
	s := dataset.NewStore()
	s.ReplaceAirports("airports.csv", []models.Airport{
		{Name: "Alpha Intl", IATA: "A", Lat: 0, Lon: 0},
		{Name: "Bravo", IATA: "B", Lat: 0, Lon: 90},
	})
	s.ReplaceAircraft("aircrafts.xml", []models.Aircraft{{ID: "X", Name: "Boeing 737"}})
	s.ReplaceTickets("tickets.csv", []models.Ticket{
		{FlightNumber: "F1", PassengerID: "P1"},
		{FlightNumber: "F1", PassengerID: "P404"},
		{FlightNumber: "F1", PassengerID: "P2"},
	})
	s.ReplacePassengers("passengers.yaml", []models.Passenger{
		{PassengerID: "P1", BirthDate: "1 de enero de 1990"},
		{PassengerID: "P2", BirthDate: "1 de enero de 2000"},
	})
	return s
}

func newTestRouter(t *testing.T, store *dataset.Store, flights FlightSource, mwCfg *ChiMiddlewareConfig) http.Handler {
	t.Helper()
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}
	h := NewHandler(HandlerConfig{
		Store:   store,
		Flights: flights,
		Engine: enrich.NewEngine(birthdate.NewCalculator(func() time.Time {
			return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
		})),
		Ingest: &stubReporter{},
	})
	return NewRouter(h, NewChiMiddleware(mwCfg)).SetupChi()
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestAirport(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, loadedStore(), &stubFlights{}, nil)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"found", "/api/airport/Bravo", http.StatusOK, `{"name":"Bravo","latitude":0,"longitude":90}`},
		{"escaped space", "/api/airport/Alpha%20Intl", http.StatusOK, `{"name":"Alpha Intl","latitude":0,"longitude":0}`},
		{"case sensitive", "/api/airport/bravo", http.StatusNotFound, msgAirportNotFound},
		{"unknown", "/api/airport/Zulu", http.StatusNotFound, msgAirportNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(h, http.MethodGet, tt.path)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
		})
	}
}

func TestPassengers(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, loadedStore(), &stubFlights{}, nil)

	rec := serve(h, http.MethodGet, "/api/passengers/F1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := `[{"passengerID":"P1","birthDate":"1 de enero de 1990"},{"passengerID":"P2","birthDate":"1 de enero de 2000"}]`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}

	rec = serve(h, http.MethodGet, "/api/passengers/NOPE")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("unknown flight body = %s, want []", got)
	}
}

func TestPassengers_LookupPanicSendsText(t *testing.T) {
	t.Parallel()

	// A handler without a store fails inside the lookup.
	h := NewRouter(NewHandler(HandlerConfig{Flights: &stubFlights{}}), nil).SetupChi()

	rec := serve(h, http.MethodGet, "/api/passengers/F1")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := rec.Body.String(); got != msgPassengersFailed {
		t.Errorf("body = %q, want %q", got, msgPassengersFailed)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
}

func TestFlights_RepeatRequestsIdentical(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "flights")
	months := map[string]string{
		"2023/2/flight_data.json":  `[{"flightNumber":"F1","originIATA":"A","destinationIATA":"B","aircraftID":"X","airline":"Sky"}]`,
		"2023/10/flight_data.json": `[{"flightNumber":"F3","originIATA":"B","destinationIATA":"A","aircraftID":"NOPE","gate":{"terminal":2}}]`,
		"2022/12/flight_data.json": `[{"flightNumber":"F2","originIATA":"A","destinationIATA":"ZZZ"}]`,
	}
	for name, body := range months {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	source := assembler.New(assembler.Config{
		FlightsDir:   root,
		SnapshotPath: filepath.Join(base, "all_flights_with_date.json"),
	})
	h := newTestRouter(t, loadedStore(), source, nil)

	first := serve(h, http.MethodGet, "/api/flights")
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d: %s", first.Code, first.Body.String())
	}
	tagged, err := os.ReadFile(filepath.Join(root, "2023", "2", "flight_data.json"))
	if err != nil {
		t.Fatal(err)
	}

	second := serve(h, http.MethodGet, "/api/flights")
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d: %s", second.Code, second.Body.String())
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Errorf("repeat request differs:\nfirst  %s\nsecond %s", first.Body.Bytes(), second.Body.Bytes())
	}

	retagged, err := os.ReadFile(filepath.Join(root, "2023", "2", "flight_data.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(tagged, retagged) {
		t.Errorf("month file changed on second assembly:\n%s\n%s", tagged, retagged)
	}

	body := first.Body.String()
	for _, want := range []string{`"totalItems":2`, `"flightNumber":"F1"`, `"flightNumber":"F3"`, `"aircraftName":"Unknown"`, `"month":"02","year":"2023"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s: %s", want, body)
		}
	}
	if strings.Index(body, `"F1"`) > strings.Index(body, `"F3"`) {
		t.Errorf("flights out of chronological order: %s", body)
	}
}

func TestFlights_EndToEnd(t *testing.T) {
	t.Parallel()

	flights := &stubFlights{flights: []models.Flight{
		mustFlight(t, `{"flightNumber":"F1","originIATA":"A","destinationIATA":"B","aircraftID":"X","airline":"Sky","year":"2023","month":"01"}`),
		mustFlight(t, `{"flightNumber":"F2","originIATA":"A","destinationIATA":"ZZZ","aircraftID":"X"}`),
	}}
	h := newTestRouter(t, loadedStore(), flights, nil)

	rec := serve(h, http.MethodGet, "/api/flights")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var page struct {
		CurrentPage int                      `json:"currentPage"`
		PageSize    int                      `json:"pageSize"`
		TotalItems  int                      `json:"totalItems"`
		TotalPages  int                      `json:"totalPages"`
		Flights     []map[string]interface{} `json:"flights"`
		Skipped     []models.SkippedFlight   `json:"skipped"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if page.CurrentPage != 1 || page.PageSize != 15 || page.TotalItems != 1 || page.TotalPages != 1 {
		t.Errorf("page header = %+v", page)
	}
	if len(page.Flights) != 1 {
		t.Fatalf("flights = %d, want 1", len(page.Flights))
	}
	f := page.Flights[0]
	if f["aircraftName"] != "Boeing 737" || f["originAirport"] != "Alpha Intl" || f["destinationAirport"] != "Bravo" {
		t.Errorf("joined fields = %v", f)
	}
	if f["passengerCount"] != float64(2) || f["averageAge"] != float64(29) {
		t.Errorf("passengerCount = %v, averageAge = %v; want 2, 29", f["passengerCount"], f["averageAge"])
	}
	if f["airline"] != "Sky" {
		t.Errorf("airline = %v, want Sky", f["airline"])
	}
	if len(page.Skipped) != 1 || page.Skipped[0].FlightNumber != "F2" ||
		page.Skipped[0].Reason != models.SkipDestinationAirportNotFound {
		t.Errorf("skipped = %+v", page.Skipped)
	}
}

func TestFlights_Pages(t *testing.T) {
	t.Parallel()

	var raw []models.Flight
	for i := range 20 {
		raw = append(raw, mustFlight(t, `{"flightNumber":"F`+string(rune('a'+i))+`","originIATA":"A","destinationIATA":"B"}`))
	}
	h := newTestRouter(t, loadedStore(), &stubFlights{flights: raw}, nil)

	tests := []struct {
		query     string
		wantPage  int
		wantCount int
	}{
		{"", 1, 15},
		{"?page=2", 2, 5},
		{"?page=3", 3, 0},
		{"?page=abc", 1, 15},
		{"?page=-4", 1, 15},
		{"?page=2xyz", 2, 5},
	}
	for _, tt := range tests {
		t.Run("page"+tt.query, func(t *testing.T) {
			t.Parallel()
			rec := serve(h, http.MethodGet, "/api/flights"+tt.query)
			var body struct {
				CurrentPage int               `json:"currentPage"`
				TotalPages  int               `json:"totalPages"`
				Flights     []json.RawMessage `json:"flights"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.CurrentPage != tt.wantPage || len(body.Flights) != tt.wantCount || body.TotalPages != 2 {
				t.Errorf("page = %d, flights = %d, totalPages = %d; want %d, %d, 2",
					body.CurrentPage, len(body.Flights), body.TotalPages, tt.wantPage, tt.wantCount)
			}
		})
	}
}

func TestFlights_AssemblyFailure(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, loadedStore(), &stubFlights{err: errors.New("no flight tree")}, nil)

	rec := serve(h, http.MethodGet, "/api/flights")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != msgFlightsProcessing {
		t.Errorf("body = %q, want %q", got, msgFlightsProcessing)
	}
}

func TestFlights_ServesBeforeDatasetLoads(t *testing.T) {
	t.Parallel()

	flights := &stubFlights{flights: []models.Flight{
		mustFlight(t, `{"flightNumber":"F1","originIATA":"A","destinationIATA":"B"}`),
	}}
	h := newTestRouter(t, dataset.NewStore(), flights, nil)

	rec := serve(h, http.MethodGet, "/api/flights")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"origin_airport_not_found"`) {
		t.Errorf("body = %s, want the flight reported as skipped", rec.Body.String())
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	store := dataset.NewStore()
	h := newTestRouter(t, store, &stubFlights{}, nil)

	rec := serve(h, http.MethodGet, "/api/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "not_ready" || resp.Metadata.RequestID == "" {
		t.Errorf("status = %q, request_id = %q", resp.Status, resp.Metadata.RequestID)
	}

	store.ReplaceAirports("airports.csv", nil)
	store.ReplaceAircraft("aircrafts.xml", nil)
	store.ReplaceTickets("tickets.csv", nil)
	store.ReplacePassengers("passengers.yaml", nil)

	rec = serve(h, http.MethodGet, "/api/health/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("status after load = %d, want 200", rec.Code)
	}

	rec = serve(h, http.MethodGet, "/api/health/live")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"alive":true`) {
		t.Errorf("live = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthReady_BucketState(t *testing.T) {
	t.Parallel()

	bucket := &stubBucket{state: "closed"}
	h := NewRouter(NewHandler(HandlerConfig{
		Store:   loadedStore(),
		Flights: &stubFlights{},
		Bucket:  bucket,
	}), nil).SetupChi()

	rec := serve(h, http.MethodGet, "/api/health/ready")
	if !strings.Contains(rec.Body.String(), `"bucket":{"name":"flights-bucket","state":"closed"}`) {
		t.Errorf("ready body = %s", rec.Body.String())
	}

	// An open breaker does not withdraw readiness.
	bucket.state = "open"
	rec = serve(h, http.MethodGet, "/api/health/ready")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"state":"open"`) {
		t.Errorf("ready with open breaker = %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(h, http.MethodGet, "/api/health/live")
	if strings.Contains(rec.Body.String(), `"bucket"`) {
		t.Errorf("live body reports bucket: %s", rec.Body.String())
	}
}

func TestIngestReport(t *testing.T) {
	t.Parallel()

	store := loadedStore()
	reporter := &stubReporter{}
	h := NewRouter(NewHandler(HandlerConfig{
		Store:   store,
		Flights: &stubFlights{},
		Ingest:  reporter,
	}), nil).SetupChi()

	rec := serve(h, http.MethodGet, "/api/ingest")
	body := rec.Body.String()
	if !strings.Contains(body, `"status":"pending"`) || !strings.Contains(body, `"formats":["csv","json"]`) {
		t.Errorf("before first run body = %s", body)
	}
	if strings.Contains(body, `"last_run"`) {
		t.Errorf("last_run reported before first run: %s", body)
	}

	reporter.running = true
	rec = serve(h, http.MethodGet, "/api/ingest")
	body = rec.Body.String()
	if !strings.Contains(body, `"status":"running"`) || !strings.Contains(body, `"running":true`) {
		t.Errorf("during run body = %s", body)
	}

	reporter.running = false
	reporter.report = &ingest.Report{RunID: "run-1", Bucket: "flights-bucket", Loaded: 5}
	rec = serve(h, http.MethodGet, "/api/ingest")
	body = rec.Body.String()
	if !strings.Contains(body, `"status":"success"`) || !strings.Contains(body, `"run-1"`) ||
		!strings.Contains(body, `"running":false`) {
		t.Errorf("after run body = %s", body)
	}

	rec = serve(h, http.MethodGet, "/api/datasets")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ready":true`) {
		t.Errorf("datasets = %d %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, loadedStore(), &stubFlights{}, nil)

	if rec := serve(h, http.MethodGet, "/api/unknown"); rec.Code != http.StatusNotFound {
		t.Errorf("GET unknown = %d, want 404", rec.Code)
	}
	if rec := serve(h, http.MethodPost, "/api/flights"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST flights = %d, want 405", rec.Code)
	}
}
