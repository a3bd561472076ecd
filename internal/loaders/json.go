// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package loaders

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/models"
	"github.com/tomtom215/skytally/internal/objectstore"
)

// FlightsCollection labels staged monthly flight files in load results.
const FlightsCollection = "flights"

// JSONLoader stages JSON objects and parses them. Objects named
// flights/<year>/<month>/<flight file> become part of the flight tree the
// assembler reads; any other JSON object is only checked for validity.
type JSONLoader struct {
	deps Deps
}

// Format implements Loader.
func (l *JSONLoader) Format() Format { return FormatJSON }

// Load implements Loader.
func (l *JSONLoader) Load(ctx context.Context, obj objectstore.Object) (Result, error) {
	path, err := objectstore.Download(ctx, l.deps.Bucket, obj.Name, l.deps.StagingDir)
	if err != nil {
		return Result{}, fmt.Errorf("download %s: %w", obj.Name, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{StagedPath: path}, fmt.Errorf("read %s: %w", path, err)
	}

	logger := logging.Ctx(ctx).With().Str("component", "loader").Str("file", obj.Name).Logger()

	if IsFlightFile(obj.Name, l.deps.FlightFileName) {
		var flights []models.Flight
		if err := json.Unmarshal(data, &flights); err != nil {
			return Result{StagedPath: path}, fmt.Errorf("parse %s: %w", obj.Name, err)
		}
		logger.Debug().Int("records", len(flights)).Str("path", path).Msg("Flight file staged")
		return Result{Collection: FlightsCollection, Records: len(flights), StagedPath: path}, nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Result{StagedPath: path}, fmt.Errorf("parse %s: %w", obj.Name, err)
	}
	logger.Debug().Str("path", path).Msg("JSON file has no collection, ignoring")
	return Result{StagedPath: path}, nil
}

// IsFlightFile reports whether an object name has the shape
// flights/<year>/<month>/<fileName>.
func IsFlightFile(name, fileName string) bool {
	parts := strings.Split(name, "/")
	return len(parts) == 4 &&
		parts[0] == FlightsCollection &&
		parts[1] != "" &&
		parts[2] != "" &&
		parts[3] == fileName
}
