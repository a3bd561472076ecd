// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package assembler builds the full flight list from the staged
// flights/<year>/<month>/<flight file> tree.
//
// Every record is tagged with its year and zero-padded month, each month
// file is rewritten in place with the tags (2-space indented JSON), and the
// concatenation is written to a snapshot file. Assembly is idempotent:
// re-tagging writes the same values and unknown fields survive.
//
// At most one assembly runs at a time; concurrent callers share the result
// of the one in flight. The returned slice is shared and must be treated as
// read-only.
package assembler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/metrics"
	"github.com/tomtom215/skytally/internal/models"
)

var (
	// ErrNoFlightTree is returned when the flights root directory is absent.
	ErrNoFlightTree = errors.New("flight tree not found")

	// ErrMonthFileMissing is returned when a month directory has no flight file.
	ErrMonthFileMissing = errors.New("month flight file missing")
)

// DefaultFlightFileName is the per-month flight file name.
const DefaultFlightFileName = "flight_data.json"

// Config locates the flight tree and the snapshot.
type Config struct {
	// FlightsDir is the root holding <year>/<month>/ directories.
	FlightsDir string
	// SnapshotPath receives the assembled list.
	SnapshotPath string
	// FlightFileName defaults to DefaultFlightFileName.
	FlightFileName string
}

// Assembler tags, rewrites and concatenates monthly flight files.
type Assembler struct {
	cfg Config

	group singleflight.Group
	mu    sync.Mutex
}

// New creates an Assembler.
func New(cfg Config) *Assembler {
	if cfg.FlightFileName == "" {
		cfg.FlightFileName = DefaultFlightFileName
	}
	return &Assembler{cfg: cfg}
}

// Assemble walks the tree in chronological order and returns every flight.
// Any unreadable month file aborts the whole assembly.
func (a *Assembler) Assemble(ctx context.Context) ([]models.Flight, error) {
	// The shared run outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := a.group.DoChan("assemble", func() (interface{}, error) {
		return a.assemble(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.AssemblyShared.Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Flight), nil
	}
}

func (a *Assembler) assemble(ctx context.Context) (flights []models.Flight, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.RecordAssembly(time.Since(start), len(flights), err)
	}()

	years, err := sortedSubdirs(a.cfg.FlightsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoFlightTree, a.cfg.FlightsDir)
		}
		return nil, fmt.Errorf("list years: %w", err)
	}

	flights = []models.Flight{}
	months := 0
	for _, year := range years {
		yearDir := filepath.Join(a.cfg.FlightsDir, year)
		monthDirs, err := sortedSubdirs(yearDir)
		if err != nil {
			return nil, fmt.Errorf("list months of %s: %w", year, err)
		}

		for _, month := range monthDirs {
			tagged, err := a.processMonth(filepath.Join(yearDir, month), year, PadMonth(month))
			if err != nil {
				return nil, err
			}
			flights = append(flights, tagged...)
			months++
		}
	}

	if err := writeJSON(a.cfg.SnapshotPath, flights); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	logging.Ctx(ctx).Debug().
		Str("component", "assembler").
		Int("months", months).
		Int("records", len(flights)).
		Dur("duration", time.Since(start)).
		Msg("Flight data assembled")
	return flights, nil
}

func (a *Assembler) processMonth(dir, year, month string) ([]models.Flight, error) {
	path := filepath.Join(dir, a.cfg.FlightFileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMonthFileMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var flights []models.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i := range flights {
		if err := flights[i].Tag(year, month); err != nil {
			return nil, fmt.Errorf("tag %s record %d: %w", path, i, err)
		}
	}

	if err := writeJSON(path, flights); err != nil {
		return nil, fmt.Errorf("rewrite %s: %w", path, err)
	}
	return flights, nil
}

// PadMonth left-pads a month directory name with '0' to two characters.
func PadMonth(name string) string {
	if len(name) >= 2 {
		return name
	}
	return strings.Repeat("0", 2-len(name)) + name
}

// sortedSubdirs lists the directories under dir, numeric names first in
// numeric order, then the rest lexicographically.
func sortedSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		ni, errI := strconv.Atoi(names[i])
		nj, errJ := strconv.Atoi(names[j])
		switch {
		case errI == nil && errJ == nil:
			if ni != nj {
				return ni < nj
			}
			return names[i] < names[j]
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return names[i] < names[j]
		}
	})
	return names, nil
}

// writeJSON writes v as 2-space indented JSON, replacing path atomically.
func writeJSON(path string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".assemble-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
