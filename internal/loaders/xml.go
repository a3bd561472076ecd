// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package loaders

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/models"
	"github.com/tomtom215/skytally/internal/objectstore"
	"github.com/tomtom215/skytally/internal/validation"
)

// aircraftRoot is the document element of the aircraft XML file.
const aircraftRoot = "aircrafts"

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlRow struct {
	Fields []xmlField `xml:",any"`
}

type xmlAircraftDoc struct {
	XMLName xml.Name
	Rows    []xmlRow `xml:"row"`
}

// XMLLoader streams <aircrafts><row>...</row></aircrafts> documents into the
// aircraft collection. One row and many rows both yield a list.
type XMLLoader struct {
	deps Deps
}

// Format implements Loader.
func (l *XMLLoader) Format() Format { return FormatXML }

// Load implements Loader.
func (l *XMLLoader) Load(ctx context.Context, obj objectstore.Object) (Result, error) {
	rc, err := l.deps.Bucket.Open(ctx, obj.Name)
	if err != nil {
		return Result{}, fmt.Errorf("stream %s: %w", obj.Name, err)
	}
	defer rc.Close()

	aircraft, dropped, err := decodeAircraft(rc)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", obj.Name, err)
	}

	l.deps.Store.ReplaceAircraft(obj.Name, aircraft)
	logging.Ctx(ctx).Info().
		Str("component", "loader").
		Str("file", obj.Name).
		Int("records", len(aircraft)).
		Int("dropped", dropped).
		Msg("Aircrafts data loaded")

	return Result{Collection: string(dataset.Aircraft), Records: len(aircraft), Dropped: dropped}, nil
}

func decodeAircraft(r io.Reader) ([]models.Aircraft, int, error) {
	var doc xmlAircraftDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, err
	}
	if doc.XMLName.Local != aircraftRoot {
		return nil, 0, fmt.Errorf("%w: root element <%s>, want <%s>", ErrUnexpectedShape, doc.XMLName.Local, aircraftRoot)
	}

	aircraft := make([]models.Aircraft, 0, len(doc.Rows))
	dropped := 0
	for i, row := range doc.Rows {
		a := models.Aircraft{}
		for _, f := range row.Fields {
			value := strings.TrimSpace(f.Value)
			switch f.XMLName.Local {
			case "aircraftID":
				if a.ID == "" {
					a.ID = value
				}
			case "name":
				if a.Name == "" {
					a.Name = value
				}
			default:
				if a.Attrs == nil {
					a.Attrs = make(map[string]string)
				}
				a.Attrs[f.XMLName.Local] = value
			}
		}
		if verr := validation.ValidateStruct(&a); verr != nil {
			logging.Warn().Int("row", i+1).Strs("fields", verr.Fields()).Msg("Dropping invalid aircraft row")
			dropped++
			continue
		}
		aircraft = append(aircraft, a)
	}
	return aircraft, dropped, nil
}
