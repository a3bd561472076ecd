// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/skytally/config.yaml",
	"/etc/skytally/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second, // assembly rewrites the flight tree inline
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Backend:  StorageBackendS3,
			Bucket:   "2023-2-tarea3",
			Region:   "auto",
			Timeout:  2 * time.Minute,
			LocalDir: "./bucket",

			RequestBurst:    10,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Ingest: IngestConfig{
			Enabled:     true,
			StagingDir:  "./temp",
			Concurrency: 4,

			WatchDebounce: 500 * time.Millisecond,
		},
		Assembly: AssemblyConfig{
			FlightFileName: "flight_data.json",
		},
		API: APIConfig{
			PageSize:          15,
			DatasetWait:       2 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration using Koanf v2 with layered sources.
// Precedence: environment > config file > defaults. The result is resolved
// and validated.
func Load() (*Config, error) {
	return load(findConfigFile())
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// STORAGE_BUCKET -> storage.bucket, API_PAGE_SIZE -> api.page_size
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"storage_backend":             "storage.backend",
	"storage_bucket":              "storage.bucket",
	"storage_region":              "storage.region",
	"storage_endpoint":            "storage.endpoint",
	"storage_use_path_style":      "storage.use_path_style",
	"storage_access_key_id":       "storage.access_key_id",
	"storage_secret_access_key":   "storage.secret_access_key",
	"storage_session_token":       "storage.session_token",
	"storage_timeout":             "storage.timeout",
	"storage_local_dir":           "storage.local_dir",
	"storage_requests_per_second": "storage.requests_per_second",
	"storage_request_burst":       "storage.request_burst",
	"storage_breaker_failures":    "storage.breaker_failures",
	"storage_breaker_timeout":     "storage.breaker_timeout",

	"ingest_enabled":        "ingest.enabled",
	"ingest_staging_dir":    "ingest.staging_dir",
	"ingest_concurrency":    "ingest.concurrency",
	"ingest_watch":          "ingest.watch",
	"ingest_watch_debounce": "ingest.watch_debounce",

	"assembly_flights_dir":      "assembly.flights_dir",
	"assembly_snapshot_path":    "assembly.snapshot_path",
	"assembly_flight_file_name": "assembly.flight_file_name",

	"api_page_size":       "api.page_size",
	"api_dataset_wait":    "api.dataset_wait",
	"cors_origins":        "api.cors_origins",
	"disable_rate_limit":  "api.rate_limit_disabled",
	"rate_limit_requests": "api.rate_limit_requests",
	"rate_limit_window":   "api.rate_limit_window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - STORAGE_BUCKET -> storage.bucket
//   - INGEST_CONCURRENCY -> ingest.concurrency
//   - CORS_ORIGINS -> api.cors_origins
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
