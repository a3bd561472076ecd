// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package dataset holds the in-memory reference collections (airports,
// aircraft, tickets and passengers) loaded from the bucket.
//
// Loaders replace a whole collection at a time. Readers take a Snapshot,
// an immutable view that is never modified after it is published, so a
// request sees either the state before a load or the state after it.
package dataset

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/skytally/internal/metrics"
	"github.com/tomtom215/skytally/internal/models"
)

// Collection names a reference collection.
type Collection string

const (
	Airports   Collection = "airports"
	Aircraft   Collection = "aircraft"
	Tickets    Collection = "tickets"
	Passengers Collection = "passengers"
)

// AllCollections lists every reference collection in display order.
var AllCollections = []Collection{Airports, Aircraft, Tickets, Passengers}

type collectionState struct {
	loaded   chan struct{}
	loadedAt time.Time
	source   string
}

// Store owns the reference collections.
type Store struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[Snapshot]
	state   map[Collection]*collectionState
	now     func() time.Time
}

// NewStore returns an empty store. Nothing is marked loaded.
func NewStore() *Store {
	s := &Store{
		state: make(map[Collection]*collectionState, len(AllCollections)),
		now:   time.Now,
	}
	for _, c := range AllCollections {
		s.state[c] = &collectionState{loaded: make(chan struct{})}
	}
	s.current.Store(emptySnapshot())
	return s
}

// Snapshot returns the current immutable view.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// ReplaceAirports atomically replaces the airport collection.
func (s *Store) ReplaceAirports(source string, airports []models.Airport) {
	s.replace(Airports, source, len(airports), func(next *Snapshot) {
		next.Airports = airports
		next.airportByIATA = make(map[string]int, len(airports))
		next.airportByName = make(map[string]int, len(airports))
		for i := range airports {
			putFirst(next.airportByIATA, airports[i].IATA, i)
			putFirst(next.airportByName, airports[i].Name, i)
		}
	})
}

// ReplaceAircraft atomically replaces the aircraft collection.
func (s *Store) ReplaceAircraft(source string, aircraft []models.Aircraft) {
	s.replace(Aircraft, source, len(aircraft), func(next *Snapshot) {
		next.Aircraft = aircraft
		next.aircraftByID = make(map[string]int, len(aircraft))
		for i := range aircraft {
			putFirst(next.aircraftByID, aircraft[i].ID, i)
		}
	})
}

// ReplaceTickets atomically replaces the ticket collection.
func (s *Store) ReplaceTickets(source string, tickets []models.Ticket) {
	s.replace(Tickets, source, len(tickets), func(next *Snapshot) {
		next.Tickets = tickets
		next.ticketsByFlight = make(map[string][]int)
		for i := range tickets {
			fn := tickets[i].FlightNumber
			next.ticketsByFlight[fn] = append(next.ticketsByFlight[fn], i)
		}
	})
}

// ReplacePassengers atomically replaces the passenger collection.
func (s *Store) ReplacePassengers(source string, passengers []models.Passenger) {
	s.replace(Passengers, source, len(passengers), func(next *Snapshot) {
		next.Passengers = passengers
		next.passengerByID = make(map[string]int, len(passengers))
		for i := range passengers {
			putFirst(next.passengerByID, passengers[i].PassengerID, i)
		}
	})
}

func (s *Store) replace(c Collection, source string, records int, apply func(next *Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Load().clone()
	apply(next)
	next.Version++
	s.current.Store(next)

	st := s.state[c]
	st.loadedAt = s.now()
	st.source = source
	select {
	case <-st.loaded:
	default:
		close(st.loaded)
	}

	metrics.RecordDatasetReplace(string(c), records, next.Version)
}

// IsReady reports whether every named collection has been loaded.
func (s *Store) IsReady(collections ...Collection) bool {
	if len(collections) == 0 {
		collections = AllCollections
	}
	for _, c := range collections {
		select {
		case <-s.loadedChan(c):
		default:
			return false
		}
	}
	return true
}

// WaitReady blocks until the named collections are loaded or ctx is done.
func (s *Store) WaitReady(ctx context.Context, collections ...Collection) error {
	if len(collections) == 0 {
		collections = AllCollections
	}
	for _, c := range collections {
		select {
		case <-s.loadedChan(c):
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", c, ctx.Err())
		}
	}
	return nil
}

func (s *Store) loadedChan(c Collection) <-chan struct{} {
	st, ok := s.state[c]
	if !ok {
		// Unknown collections never become ready.
		return make(chan struct{})
	}
	return st.loaded
}

// Status reports per-collection load state.
func (s *Store) Status() models.DatasetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.Load()
	status := models.DatasetStatus{
		Version:     snap.Version,
		Ready:       true,
		Collections: make([]models.CollectionStatus, 0, len(AllCollections)),
	}
	for _, c := range AllCollections {
		st := s.state[c]
		cs := models.CollectionStatus{
			Name:  string(c),
			Count: snap.Len(c),
		}
		select {
		case <-st.loaded:
			cs.Loaded = true
			loadedAt := st.loadedAt
			cs.LoadedAt = &loadedAt
			cs.Source = st.source
		default:
			status.Ready = false
		}
		status.Collections = append(status.Collections, cs)
	}
	return status
}

func putFirst(index map[string]int, key string, pos int) {
	if _, exists := index[key]; !exists {
		index[key] = pos
	}
}
