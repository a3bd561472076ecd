// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/skytally/internal/logging"
	"github.com/tomtom215/skytally/internal/metrics"
)

// GuardConfig configures a GuardedBucket.
type GuardConfig struct {
	// RequestsPerSecond paces List and Open calls. Zero disables pacing.
	RequestsPerSecond float64
	// Burst is the limiter burst size. Defaults to 1 when pacing is enabled.
	Burst int

	// ConsecutiveFailures opens the circuit. Defaults to 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before a probe. Defaults to 30s.
	OpenTimeout time.Duration
}

// GuardedBucket wraps a Bucket with a circuit breaker and an optional
// request rate limit. ErrObjectNotFound and context cancellation do not
// count as failures.
type GuardedBucket struct {
	inner   Bucket
	cb      *gobreaker.CircuitBreaker[any]
	limiter *rate.Limiter
	name    string
}

// NewGuardedBucket wraps inner.
func NewGuardedBucket(inner Bucket, cfg GuardConfig) *GuardedBucket {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	cbName := "bucket"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	threshold := cfg.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: benignError,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("bucket", inner.Name()).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Bucket circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := max(cfg.Burst, 1)
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &GuardedBucket{inner: inner, cb: cb, limiter: limiter, name: cbName}
}

// Name returns the wrapped bucket's name.
func (g *GuardedBucket) Name() string {
	return g.inner.Name()
}

// State reports the circuit state as "closed", "half-open" or "open".
func (g *GuardedBucket) State() string {
	return stateToString(g.cb.State())
}

// List lists the wrapped bucket.
func (g *GuardedBucket) List(ctx context.Context) ([]Object, error) {
	return castResult[[]Object](g.execute(ctx, func() (any, error) {
		return g.inner.List(ctx)
	}))
}

// Open opens an object of the wrapped bucket. Only opening is guarded; read
// errors on the returned stream are not counted.
func (g *GuardedBucket) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return castResult[io.ReadCloser](g.execute(ctx, func() (any, error) {
		return g.inner.Open(ctx, name)
	}))
}

func (g *GuardedBucket) execute(ctx context.Context, fn func() (any, error)) (any, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	result, err := g.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
		return nil, fmt.Errorf("bucket %s unavailable: %w", g.inner.Name(), err)
	case err != nil:
		if !benignError(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	return result, nil
}

// benignError reports errors that say nothing about bucket health.
func benignError(err error) bool {
	return err == nil ||
		errors.Is(err, ErrObjectNotFound) ||
		errors.Is(err, context.Canceled)
}

func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
