// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package loaders turns bucket objects into reference collections.
//
// There is one loader per source format. XML and CSV objects are streamed
// straight from the bucket; JSON and YAML objects are first staged to
// <staging>/<object name>, which is also how the monthly flight files reach
// the tree the assembler reads. A loader that fails leaves the target
// collection unchanged.
package loaders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/objectstore"
)

// Format identifies a source file format.
type Format string

const (
	FormatXML  Format = "xml"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnknownFormat is returned for objects no loader handles.
	ErrUnknownFormat = errors.New("unknown file format")

	// ErrUnexpectedShape is returned when a document parses but does not
	// have the expected structure (wrong root element, missing wrapper key).
	ErrUnexpectedShape = errors.New("unexpected document shape")
)

// Result summarizes one loaded object.
type Result struct {
	// Collection is the dataset collection replaced by the load, "flights"
	// for staged flight files, or "" when the object was parsed but not used.
	Collection string
	Records    int
	// Dropped counts records that failed basic existence checks.
	Dropped int
	// StagedPath is set for objects downloaded to the staging directory.
	StagedPath string
}

// Loader parses one kind of object.
type Loader interface {
	Format() Format
	Load(ctx context.Context, obj objectstore.Object) (Result, error)
}

// Deps are the collaborators shared by all loaders.
type Deps struct {
	Bucket     objectstore.Bucket
	Store      *dataset.Store
	StagingDir string
	// FlightFileName is the monthly flight file name, flight_data.json by default.
	FlightFileName string
}

// Registry maps file extensions to loaders.
type Registry struct {
	mu      sync.RWMutex
	byExt   map[string]Loader
	formats map[Format]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt:   make(map[string]Loader),
		formats: make(map[Format]Loader),
	}
}

// NewDefaultRegistry registers the XML, CSV, JSON and YAML loaders.
func NewDefaultRegistry(deps Deps) *Registry {
	if deps.FlightFileName == "" {
		deps.FlightFileName = "flight_data.json"
	}
	r := NewRegistry()
	r.Register(&XMLLoader{deps: deps}, ".xml")
	r.Register(&CSVLoader{deps: deps}, ".csv")
	r.Register(&JSONLoader{deps: deps}, ".json")
	r.Register(&YAMLLoader{deps: deps}, ".yaml", ".yml")
	return r
}

// Register binds a loader to one or more extensions (with the leading dot).
func (r *Registry) Register(l Loader, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range exts {
		r.byExt[ext] = l
	}
	r.formats[l.Format()] = l
}

// ForObject returns the loader for an object, chosen by extension.
func (r *Registry) ForObject(obj objectstore.Object) (Loader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if l, ok := r.byExt[obj.Ext()]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, obj.Name)
}

// Formats returns the registered formats, sorted.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Format, 0, len(r.formats))
	for f := range r.formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
