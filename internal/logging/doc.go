// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package logging provides the process-wide zerolog logger for Skytally.
//
// Initialize once from main, then log through the package functions:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("bucket", name).Msg("Listing bucket")
//	logging.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
//
// Ctx adds the request_id set by the HTTP middleware and the run_id set by
// background ingestion runs. NewSlogLogger bridges to log/slog for libraries
// that only accept an *slog.Logger, such as sutureslog.
//
// Always terminate event chains with Msg or Send; an unterminated chain is
// never written.
package logging
