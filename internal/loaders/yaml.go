// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package loaders

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/skytally/internal/dataset"
	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/models"
	"github.com/tomtom215/skytally/internal/objectstore"
	"github.com/tomtom215/skytally/internal/validation"
)

// passengersKey wraps the passenger list in passengers.yaml.
const passengersKey = "passengers"

// YAMLLoader stages YAML objects. passengers.yaml (or .yml) replaces the
// passenger collection; other YAML objects are staged and ignored.
type YAMLLoader struct {
	deps Deps
}

// Format implements Loader.
func (l *YAMLLoader) Format() Format { return FormatYAML }

// Load implements Loader.
func (l *YAMLLoader) Load(ctx context.Context, obj objectstore.Object) (Result, error) {
	path, err := objectstore.Download(ctx, l.deps.Bucket, obj.Name, l.deps.StagingDir)
	if err != nil {
		return Result{}, fmt.Errorf("download %s: %w", obj.Name, err)
	}

	logger := logging.Ctx(ctx).With().Str("component", "loader").Str("file", obj.Name).Logger()

	base := obj.Base()
	if base != "passengers.yaml" && base != "passengers.yml" {
		logger.Debug().Str("path", path).Msg("YAML file has no collection, ignoring")
		return Result{StagedPath: path}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{StagedPath: path}, fmt.Errorf("read %s: %w", path, err)
	}

	passengers, dropped, err := decodePassengers(data)
	if err != nil {
		return Result{StagedPath: path}, fmt.Errorf("parse %s: %w", obj.Name, err)
	}

	l.deps.Store.ReplacePassengers(obj.Name, passengers)
	logger.Info().Int("records", len(passengers)).Int("dropped", dropped).Msg("Passengers data loaded")

	return Result{
		Collection: string(dataset.Passengers),
		Records:    len(passengers),
		Dropped:    dropped,
		StagedPath: path,
	}, nil
}

// decodePassengers reads {passengers: [...]} keeping every key of each entry
// in document order.
func decodePassengers(data []byte) ([]models.Passenger, int, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, 0, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, 0, fmt.Errorf("%w: empty document", ErrUnexpectedShape)
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, 0, fmt.Errorf("%w: top level is not a mapping", ErrUnexpectedShape)
	}

	list := mappingValue(doc, passengersKey)
	if list == nil {
		return nil, 0, fmt.Errorf("%w: missing %q key", ErrUnexpectedShape, passengersKey)
	}
	if list.Kind != yaml.SequenceNode {
		// "passengers:" with no entries decodes as a null scalar.
		if list.Tag == "!!null" {
			return []models.Passenger{}, 0, nil
		}
		return nil, 0, fmt.Errorf("%w: %q is not a list", ErrUnexpectedShape, passengersKey)
	}

	passengers := make([]models.Passenger, 0, len(list.Content))
	dropped := 0
	for i, item := range list.Content {
		p, err := passengerFromNode(item)
		if err != nil {
			logging.Warn().Int("entry", i).Err(err).Msg("Dropping unreadable passenger entry")
			dropped++
			continue
		}
		if verr := validation.ValidateStruct(&p); verr != nil {
			logging.Warn().Int("entry", i).Strs("fields", verr.Fields()).Msg("Dropping invalid passenger entry")
			dropped++
			continue
		}
		passengers = append(passengers, p)
	}
	return passengers, dropped, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func passengerFromNode(n *yaml.Node) (models.Passenger, error) {
	if n.Kind != yaml.MappingNode {
		return models.Passenger{}, fmt.Errorf("%w: passenger entry is not a mapping", ErrUnexpectedShape)
	}

	attrs := models.Object{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var value any
		if err := n.Content[i+1].Decode(&value); err != nil {
			return models.Passenger{}, fmt.Errorf("decode %q: %w", n.Content[i].Value, err)
		}
		raw, err := json.Marshal(jsonCompatible(value))
		if err != nil {
			return models.Passenger{}, fmt.Errorf("encode %q: %w", n.Content[i].Value, err)
		}
		attrs.Set(n.Content[i].Value, raw)
	}

	return models.Passenger{
		PassengerID: attrs.String("passengerID"),
		BirthDate:   attrs.String("birthDate"),
		Attrs:       attrs,
	}, nil
}

// jsonCompatible rewrites map[interface{}]interface{} values, which YAML
// produces for non-string keys, into string-keyed maps.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = jsonCompatible(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = jsonCompatible(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = jsonCompatible(t[i])
		}
		return t
	default:
		return v
	}
}
