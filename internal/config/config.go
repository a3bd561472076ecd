// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: override any setting
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Assembly AssemblyConfig `koanf:"assembly"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Storage backends.
const (
	StorageBackendS3    = "s3"
	StorageBackendLocal = "local"
)

// StorageConfig selects and configures the source bucket.
type StorageConfig struct {
	// Backend is "s3" (any S3-compatible endpoint) or "local" (a directory).
	Backend string `koanf:"backend" validate:"oneof=s3 local"`

	Bucket          string        `koanf:"bucket"`
	Region          string        `koanf:"region"`
	Endpoint        string        `koanf:"endpoint"`
	UsePathStyle    bool          `koanf:"use_path_style"`
	AccessKeyID     string        `koanf:"access_key_id"`
	SecretAccessKey string        `koanf:"secret_access_key"`
	SessionToken    string        `koanf:"session_token"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`

	// LocalDir is the bucket root when Backend is "local".
	LocalDir string `koanf:"local_dir"`

	// RequestsPerSecond paces bucket requests; 0 means unlimited.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gte=0"`
	RequestBurst      int     `koanf:"request_burst"`
	// BreakerFailures consecutive failed requests open the bucket circuit
	// for BreakerTimeout.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// IngestConfig controls the startup bucket ingestion.
type IngestConfig struct {
	Enabled     bool   `koanf:"enabled"`
	StagingDir  string `koanf:"staging_dir" validate:"notblank"`
	Concurrency int    `koanf:"concurrency" validate:"gte=1,lte=64"`

	// Watch re-runs ingestion when the local bucket directory changes.
	// Only applies to the local storage backend.
	Watch         bool          `koanf:"watch"`
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}

// AssemblyConfig locates the on-disk flight tree and its snapshot.
// Empty paths are derived from Ingest.StagingDir by Resolve.
type AssemblyConfig struct {
	FlightsDir     string `koanf:"flights_dir"`
	SnapshotPath   string `koanf:"snapshot_path"`
	FlightFileName string `koanf:"flight_file_name"`
}

// APIConfig holds HTTP API behavior.
type APIConfig struct {
	PageSize    int           `koanf:"page_size" validate:"gte=1,lte=1000"`
	DatasetWait time.Duration `koanf:"dataset_wait" validate:"gte=0"`
	CORSOrigins []string      `koanf:"cors_origins" validate:"min=1"`

	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Resolve fills paths that default to locations under the staging directory.
func (c *Config) Resolve() {
	if c.Assembly.FlightsDir == "" {
		c.Assembly.FlightsDir = filepath.Join(c.Ingest.StagingDir, "flights")
	}
	if c.Assembly.SnapshotPath == "" {
		c.Assembly.SnapshotPath = filepath.Join(c.Ingest.StagingDir, "all_flights_with_date.json")
	}
	if c.Assembly.FlightFileName == "" {
		c.Assembly.FlightFileName = "flight_data.json"
	}
}
