// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracing creates an OpenTelemetry span around every request that
// reaches a fango router, propagating trace context in both directions and
// recording standard HTTP attributes on the span.
package tracing

import (
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// samplingMultiplier spreads a monotonically increasing counter across the
// uint64 range so a fixed sample rate yields a uniformly distributed subset
// of requests rather than every Nth one.
const samplingMultiplier = 0x9E3779B97F4A7C15

// Tracer holds the OpenTelemetry tracer and propagator used to instrument
// one router's requests, plus the runtime state needed to sample and
// filter them. All methods are safe for concurrent use.
type Tracer struct {
	enabled bool

	tracer     trace.Tracer
	propagator propagation.TextMapPropagator

	serviceName    string
	serviceVersion string

	pathFilter       *pathFilter
	recordHeadersLow []string
	recordParams     bool

	sampleRate        float64
	samplingCounter   atomic.Uint64
	samplingThreshold uint64
}

// Option configures a Tracer.
type Option func(*tracerConfig)

type tracerConfig struct {
	serviceName    string
	serviceVersion string
	tracer         trace.Tracer
	propagator     propagation.TextMapPropagator
	pathFilter     *pathFilter
	recordHeaders  []string
	recordParams   bool
	sampleRate     float64
}

func defaultConfig() *tracerConfig {
	return &tracerConfig{
		serviceName:    "fango-service",
		serviceVersion: "0.0.0",
		propagator:     otel.GetTextMapPropagator(),
		pathFilter:     newPathFilter(),
		recordParams:   true,
		sampleRate:     1.0,
	}
}

// WithServiceName sets the service.name attribute on every span.
func WithServiceName(name string) Option { return func(c *tracerConfig) { c.serviceName = name } }

// WithServiceVersion sets the service.version attribute on every span.
func WithServiceVersion(version string) Option {
	return func(c *tracerConfig) { c.serviceVersion = version }
}

// WithSampleRate sets the fraction of requests (0.0 to 1.0) that get a
// recording span. Out-of-range values are clamped.
func WithSampleRate(rate float64) Option {
	return func(c *tracerConfig) {
		if rate < 0.0 {
			rate = 0.0
		}
		if rate > 1.0 {
			rate = 1.0
		}
		c.sampleRate = rate
	}
}

// WithExcludePaths excludes exact request paths from tracing (health
// checks, the metrics endpoint).
func WithExcludePaths(paths ...string) Option {
	return func(c *tracerConfig) { c.pathFilter.addPaths(paths...) }
}

// WithExcludePrefixes excludes whole path hierarchies from tracing.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(c *tracerConfig) { c.pathFilter.addPrefixes(prefixes...) }
}

var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,
	"www-authenticate":    true,
}

// WithHeaders records the given request headers as span attributes.
// Sensitive headers (Authorization, Cookie, ...) are silently dropped.
func WithHeaders(headers ...string) Option {
	return func(c *tracerConfig) {
		for _, h := range headers {
			if !sensitiveHeaders[strings.ToLower(h)] {
				c.recordHeaders = append(c.recordHeaders, h)
			}
		}
	}
}

// WithDisableParams stops path parameters from being recorded as span
// attributes. Recording is enabled by default.
func WithDisableParams() Option {
	return func(c *tracerConfig) { c.recordParams = false }
}

// WithTracer supplies a pre-built trace.Tracer, bypassing otel.Tracer's
// global TracerProvider lookup. Useful when the caller manages its own
// TracerProvider lifecycle.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *tracerConfig) { c.tracer = tracer }
}

// WithPropagator supplies a custom propagator in place of the global one
// returned by otel.GetTextMapPropagator().
func WithPropagator(propagator propagation.TextMapPropagator) Option {
	return func(c *tracerConfig) { c.propagator = propagator }
}

// New builds a Tracer. If no tracer was supplied via WithTracer, it is
// obtained from otel.Tracer against the currently configured global
// TracerProvider — callers that want OTLP or stdout export configure that
// provider themselves via otel.SetTracerProvider before calling New.
func New(opts ...Option) *Tracer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer("github.com/fango-http/fango/tracing")
	}

	t := &Tracer{
		enabled:        true,
		tracer:         cfg.tracer,
		propagator:     cfg.propagator,
		serviceName:    cfg.serviceName,
		serviceVersion: cfg.serviceVersion,
		pathFilter:     cfg.pathFilter,
		recordParams:   cfg.recordParams,
		sampleRate:     cfg.sampleRate,
	}
	t.recordHeadersLow = make([]string, len(cfg.recordHeaders))
	for i, h := range cfg.recordHeaders {
		t.recordHeadersLow[i] = strings.ToLower(h)
	}

	switch {
	case cfg.sampleRate <= 0.0:
		t.samplingThreshold = 0
	case cfg.sampleRate >= 1.0:
		t.samplingThreshold = ^uint64(0)
	default:
		t.samplingThreshold = uint64(cfg.sampleRate * float64(^uint64(0)))
	}

	return t
}

// shouldSample reports whether the next request should get a recording
// span, using an atomic counter spread by samplingMultiplier so a partial
// sample rate selects a uniformly distributed subset rather than a
// repeating stride.
func (t *Tracer) shouldSample() bool {
	if t.sampleRate >= 1.0 {
		return true
	}
	if t.sampleRate <= 0.0 {
		return false
	}
	counter := t.samplingCounter.Add(1)
	hash := counter * samplingMultiplier
	return hash <= t.samplingThreshold
}
