// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package services

import (
	"context"
	"errors"
	"fmt"
)

// BucketWatcher is the part of ingest.Watcher the service drives.
type BucketWatcher interface {
	Watch(ctx context.Context) error
}

// WatchService runs a bucket watcher under the supervisor.
type WatchService struct {
	watcher BucketWatcher
	name    string
}

// NewWatchService creates the service wrapper.
func NewWatchService(watcher BucketWatcher) *WatchService {
	return &WatchService{watcher: watcher, name: "bucket-watch"}
}

// Serve implements suture.Service. A watcher that stops for any reason other
// than shutdown is reported as a failure and restarted.
func (s *WatchService) Serve(ctx context.Context) error {
	err := s.watcher.Watch(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("watcher stopped")
	}
	return fmt.Errorf("bucket watch failed: %w", err)
}

// String implements fmt.Stringer.
func (s *WatchService) String() string {
	return s.name
}
