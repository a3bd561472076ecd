// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package objectstore lists and reads the objects of the source bucket and
// stages them on local disk.
//
// Two Bucket implementations are provided: S3Bucket talks to any
// S3-compatible service (AWS S3, MinIO, the GCS interoperability endpoint)
// and DirBucket serves a local directory.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrObjectNotFound is returned when a named object does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrUnsafeName is returned for object names that would resolve outside
	// the staging or bucket root (absolute paths, ".." segments).
	ErrUnsafeName = errors.New("unsafe object name")
)

// Object describes one entry of a bucket listing.
type Object struct {
	// Name is the slash-separated object key, e.g. "flights/2023/1/flight_data.json".
	Name    string
	Size    int64
	Updated time.Time
}

// Ext returns the lower-cased extension of the object name including the dot.
func (o Object) Ext() string {
	return strings.ToLower(path.Ext(o.Name))
}

// Base returns the last element of the object name.
func (o Object) Base() string {
	return path.Base(o.Name)
}

// Bucket is a read-only view of an object store bucket.
type Bucket interface {
	// Name identifies the bucket in logs.
	Name() string
	// List returns every object in the bucket.
	List(ctx context.Context) ([]Object, error)
	// Open streams the contents of the named object.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// StagingPath returns where an object is staged under dir.
func StagingPath(dir, name string) (string, error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return filepath.Join(dir, local), nil
}

// Download copies the named object to <dir>/<name>, creating intermediate
// directories as needed, and returns the local path. The file is written to a
// temporary sibling first and renamed into place, so readers never observe a
// partially written object.
func Download(ctx context.Context, b Bucket, name, dir string) (string, error) {
	dest, err := StagingPath(dir, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	src, err := b.Open(ctx, name)
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("download %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close staging file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return "", fmt.Errorf("stage %s: %w", name, err)
	}
	return dest, nil
}
