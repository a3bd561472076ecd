// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package ingest

import "time"

// Outcome is the result of processing one bucket object.
type Outcome string

const (
	OutcomeLoaded  Outcome = "loaded"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// FileReport describes what happened to one bucket object.
type FileReport struct {
	Name       string        `json:"name"`
	Format     string        `json:"format,omitempty"`
	Outcome    Outcome       `json:"outcome"`
	Collection string        `json:"collection,omitempty"`
	Records    int           `json:"records"`
	Dropped    int           `json:"dropped"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// Report summarizes one ingestion run.
type Report struct {
	RunID     string       `json:"run_id"`
	Bucket    string       `json:"bucket"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
	Files     []FileReport `json:"files"`
	Loaded    int          `json:"loaded"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// File returns the report for the named object.
func (r *Report) File(name string) (FileReport, bool) {
	for _, f := range r.Files {
		if f.Name == name {
			return f, true
		}
	}
	return FileReport{}, false
}

func (r *Report) tally() {
	r.Loaded, r.Skipped, r.Failed = 0, 0, 0
	for _, f := range r.Files {
		switch f.Outcome {
		case OutcomeLoaded:
			r.Loaded++
		case OutcomeSkipped:
			r.Skipped++
		case OutcomeFailed:
			r.Failed++
		}
	}
}
