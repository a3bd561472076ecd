// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/validation"
)

// tagEnvNames maps the struct path of every tagged field to the environment
// variable that sets it.
var tagEnvNames = map[string]string{
	"Config.Server.Port":               "HTTP_PORT",
	"Config.Server.ShutdownTimeout":    "HTTP_SHUTDOWN_TIMEOUT",
	"Config.Storage.Backend":           "STORAGE_BACKEND",
	"Config.Storage.Timeout":           "STORAGE_TIMEOUT",
	"Config.Storage.RequestsPerSecond": "STORAGE_REQUESTS_PER_SECOND",
	"Config.Ingest.StagingDir":         "INGEST_STAGING_DIR",
	"Config.Ingest.Concurrency":        "INGEST_CONCURRENCY",
	"Config.API.PageSize":              "API_PAGE_SIZE",
	"Config.API.DatasetWait":           "API_DATASET_WAIT",
	"Config.API.CORSOrigins":           "CORS_ORIGINS",
}

// Validate checks that required configuration is present and valid.
// Field bounds come from the validate struct tags; the rules that depend on
// more than one field follow.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return tagError(verr)
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateIngest(); err != nil {
		return err
	}

	if err := c.validateAssembly(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	return c.validateLogging()
}

// tagError reports every failed tag under its environment variable name.
func tagError(verr *validation.RecordValidationError) error {
	fieldErrs := verr.Errors()
	messages := make([]string, len(fieldErrs))
	for i := range fieldErrs {
		name, ok := tagEnvNames[fieldErrs[i].Namespace()]
		if !ok {
			name = fieldErrs[i].Namespace()
		}
		messages[i] = fieldErrs[i].MessageFor(name)
	}
	return errors.New(strings.Join(messages, "; "))
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageBackendS3:
		if strings.TrimSpace(c.Storage.Bucket) == "" {
			return fmt.Errorf("STORAGE_BUCKET is required when STORAGE_BACKEND=s3")
		}
		if c.Storage.Endpoint != "" {
			if err := validateHTTPURL(c.Storage.Endpoint, "STORAGE_ENDPOINT"); err != nil {
				return fmt.Errorf("STORAGE_ENDPOINT is invalid: %w", err)
			}
		}
		if (c.Storage.AccessKeyID == "") != (c.Storage.SecretAccessKey == "") {
			return fmt.Errorf("STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY must be set together")
		}
	case StorageBackendLocal:
		if strings.TrimSpace(c.Storage.LocalDir) == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR is required when STORAGE_BACKEND=local")
		}
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.Watch && c.Storage.Backend == StorageBackendLocal {
		if c.Ingest.WatchDebounce <= 0 {
			return fmt.Errorf("INGEST_WATCH_DEBOUNCE must be positive")
		}
		// Staged downloads below the watched root would retrigger ingestion.
		if within(c.Ingest.StagingDir, c.Storage.LocalDir) {
			return fmt.Errorf("INGEST_STAGING_DIR must be outside STORAGE_LOCAL_DIR when INGEST_WATCH is enabled")
		}
	}
	return nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	absPath, err1 := filepath.Abs(path)
	absDir, err2 := filepath.Abs(dir)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	return err == nil && filepath.IsLocal(rel)
}

func (c *Config) validateAssembly() error {
	if c.Assembly.FlightsDir == "" || c.Assembly.SnapshotPath == "" {
		return fmt.Errorf("assembly paths are not resolved")
	}
	if name := c.Assembly.FlightFileName; name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("ASSEMBLY_FLIGHT_FILE_NAME must be a plain file name, got %q", name)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitRequests < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
