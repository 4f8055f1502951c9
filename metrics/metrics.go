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

// Package metrics records Prometheus counters and histograms for
// requests flowing through a fango router: request count, latency, size,
// and in-flight count, plus a small custom-metric surface for handlers.
package metrics

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultDurationBuckets are histogram boundaries for request duration,
// in seconds, covering 5-millisecond to 10-second responses.
var DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// DefaultSizeBuckets are histogram boundaries for request/response
// sizes, in bytes, covering 100B to 10MB.
var DefaultSizeBuckets = []float64{100, 1000, 10000, 100000, 1000000, 10000000}

var metricNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Recorder holds the Prometheus instruments for one router's metrics and
// the runtime state (custom metric caches, path filter) used while
// recording. All methods are safe for concurrent use.
type Recorder struct {
	enabled bool

	registry *prometheus.Registry
	handler  http.Handler

	pathFilter       *pathFilter
	recordHeadersLow []string

	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	activeRequests  *prometheus.GaugeVec
	requestSize     *prometheus.HistogramVec
	responseSize    *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec

	customMu         sync.RWMutex
	customCounters   map[string]*prometheus.CounterVec
	customHistograms map[string]*prometheus.HistogramVec
	customGauges     map[string]*prometheus.GaugeVec
	maxCustomMetrics int

	durationBuckets []float64
	sizeBuckets     []float64
}

// Option configures a Recorder.
type Option func(*recorderConfig)

type recorderConfig struct {
	serviceName      string
	serviceVersion   string
	pathFilter       *pathFilter
	recordHeaders    []string
	durationBuckets  []float64
	sizeBuckets      []float64
	maxCustomMetrics int
}

func defaultConfig() *recorderConfig {
	return &recorderConfig{
		serviceName:      "fango-service",
		serviceVersion:   "0.0.0",
		pathFilter:       newPathFilter(),
		durationBuckets:  DefaultDurationBuckets,
		sizeBuckets:      DefaultSizeBuckets,
		maxCustomMetrics: 1000,
	}
}

// WithServiceName sets the service_name label applied to every metric.
func WithServiceName(name string) Option { return func(c *recorderConfig) { c.serviceName = name } }

// WithServiceVersion sets the service_version label applied to every metric.
func WithServiceVersion(version string) Option {
	return func(c *recorderConfig) { c.serviceVersion = version }
}

// WithDurationBuckets overrides the request-duration histogram buckets (seconds).
func WithDurationBuckets(buckets ...float64) Option {
	return func(c *recorderConfig) { c.durationBuckets = buckets }
}

// WithSizeBuckets overrides the request/response size histogram buckets (bytes).
func WithSizeBuckets(buckets ...float64) Option {
	return func(c *recorderConfig) { c.sizeBuckets = buckets }
}

// WithMaxCustomMetrics caps the number of distinct custom metric names a
// Recorder will create, to bound memory from unbounded metric names.
func WithMaxCustomMetrics(n int) Option {
	return func(c *recorderConfig) { c.maxCustomMetrics = n }
}

// WithExcludePaths excludes exact request paths from collection (health
// checks, the metrics endpoint itself).
func WithExcludePaths(paths ...string) Option {
	return func(c *recorderConfig) { c.pathFilter.addPaths(paths...) }
}

// WithExcludePrefixes excludes whole path hierarchies from collection.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(c *recorderConfig) { c.pathFilter.addPrefixes(prefixes...) }
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

// WithHeaders records the given request headers as a metric label.
// Sensitive headers (Authorization, Cookie, ...) are silently dropped.
func WithHeaders(headers ...string) Option {
	return func(c *recorderConfig) {
		for _, h := range headers {
			if !sensitiveHeaders[strings.ToLower(h)] {
				c.recordHeaders = append(c.recordHeaders, h)
			}
		}
	}
}

// New builds a Recorder registered against a fresh, private Prometheus
// registry (so multiple Recorders can coexist in one process without
// colliding on the global default registry).
func New(opts ...Option) (*Recorder, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{
		"service_name":    cfg.serviceName,
		"service_version": cfg.serviceVersion,
	}

	r := &Recorder{
		enabled:          true,
		registry:         registry,
		pathFilter:       cfg.pathFilter,
		maxCustomMetrics: cfg.maxCustomMetrics,
		durationBuckets:  cfg.durationBuckets,
		sizeBuckets:      cfg.sizeBuckets,
		customCounters:   make(map[string]*prometheus.CounterVec),
		customHistograms: make(map[string]*prometheus.HistogramVec),
		customGauges:     make(map[string]*prometheus.GaugeVec),
	}
	r.recordHeadersLow = make([]string, len(cfg.recordHeaders))
	for i, h := range cfg.recordHeaders {
		r.recordHeadersLow[i] = strings.ToLower(h)
	}

	labelNames := append([]string{"method", "route", "status_class"}, r.recordHeadersLow...)

	r.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "http_request_duration_seconds",
		Help:        "Duration of HTTP requests in seconds.",
		Buckets:     cfg.durationBuckets,
		ConstLabels: constLabels,
	}, labelNames)
	r.requestCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests.",
		ConstLabels: constLabels,
	}, labelNames)
	r.errorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "http_errors_total",
		Help:        "Total number of HTTP requests that finished with a 4xx or 5xx status.",
		ConstLabels: constLabels,
	}, labelNames)
	r.activeRequests = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "http_requests_active",
		Help:        "Number of requests currently being handled.",
		ConstLabels: constLabels,
	}, []string{"method", "route"})
	r.requestSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "http_request_size_bytes",
		Help:        "Size of HTTP request bodies in bytes.",
		Buckets:     cfg.sizeBuckets,
		ConstLabels: constLabels,
	}, []string{"method", "route"})
	r.responseSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "http_response_size_bytes",
		Help:        "Size of HTTP response bodies in bytes.",
		Buckets:     cfg.sizeBuckets,
		ConstLabels: constLabels,
	}, []string{"method", "route"})

	for _, c := range []prometheus.Collector{
		r.requestDuration, r.requestCount, r.errorCount,
		r.activeRequests, r.requestSize, r.responseSize,
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering metric: %w", err)
		}
	}

	r.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return r, nil
}

// MustNew is like New but panics on error, for use in init-time wiring
// where a misconfigured Recorder should abort process startup.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}
	return r
}

// Handler returns the http.Handler serving this Recorder's Prometheus
// exposition format, typically mounted at /metrics.
func (r *Recorder) Handler() http.Handler { return r.handler }

// Registry returns the private registry backing this Recorder, for
// callers that want to register additional collectors alongside it.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func getStatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "1xx"
	}
}

func validateMetricName(name string) error {
	if name == "" || !metricNameRegex.MatchString(name) {
		return fmt.Errorf("invalid metric name %q: must start with a letter and contain only letters, digits, underscores", name)
	}
	if strings.HasPrefix(name, "http_") {
		return fmt.Errorf("metric name %q uses the reserved http_ prefix", name)
	}
	return nil
}
