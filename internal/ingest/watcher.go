// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tomtom215/skytally/internal/logging"
)

// DefaultDebounce is the quiet period a Watcher waits for before re-running.
const DefaultDebounce = 500 * time.Millisecond

// Runner runs one ingestion. Satisfied by *Ingester.
type Runner interface {
	Run(ctx context.Context) (*Report, error)
}

// Watcher re-runs ingestion when files below a local bucket root change.
// Bursts of events are coalesced into one run after a quiet period.
// Hidden files (leading dot) are ignored, which covers in-flight temp files.
type Watcher struct {
	root     string
	runner   Runner
	debounce time.Duration
}

// NewWatcher creates a Watcher. debounce <= 0 uses DefaultDebounce.
func NewWatcher(root string, runner Runner, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, runner: runner, debounce: debounce}
}

// Watch blocks until ctx is canceled or the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := addTree(fw, w.root); err != nil {
		return err
	}

	logger := logging.Ctx(ctx).With().Str("component", "bucket-watch").Str("root", w.root).Logger()
	logger.Info().Dur("debounce", w.debounce).Msg("Watching bucket directory")

	fire := make(chan struct{}, 1)
	timer := time.AfterFunc(time.Hour, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fw, event.Name); err != nil {
						logger.Warn().Err(err).Str("dir", event.Name).Msg("Failed to watch new directory")
					}
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Bucket change detected")
			timer.Reset(w.debounce)

		case <-fire:
			report, err := w.runner.Run(ctx)
			switch {
			case errors.Is(err, ErrAlreadyRunning):
				timer.Reset(w.debounce)
			case err != nil:
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn().Err(err).Msg("Re-ingestion after bucket change failed")
			default:
				logger.Info().
					Str("run_id", report.RunID).
					Int("loaded", report.Loaded).
					Int("failed", report.Failed).
					Msg("Re-ingested bucket after change")
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			logger.Warn().Err(err).Msg("Bucket watcher error")
		}
	}
}

// addTree watches dir and every directory below it.
func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
