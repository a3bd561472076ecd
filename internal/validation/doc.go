// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package validation provides struct validation using go-playground/validator v10.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - A "notblank" tag rejecting empty and whitespace-only strings
//   - Human-readable error translation for the tags used by Skytally records
//
// # Usage
//
// The format loaders validate every decoded airport, aircraft, ticket and
// passenger record and drop the ones that fail basic existence checks:
//
//	if verr := validation.ValidateStruct(&airport); verr != nil {
//	    // verr.Fields() lists the offending fields
//	}
//
// Config.Validate runs the range and enum tags of the configuration structs
// through ValidateStruct and reports each failure under its environment
// variable name with ValidationError.MessageFor.
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
