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

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// LimitError is returned when a custom metric would exceed the
// Recorder's configured maximum distinct metric names.
type LimitError struct {
	MetricName string
	Limit      int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("metrics: cannot create %q: limit of %d custom metrics reached", e.MetricName, e.Limit)
}

func (r *Recorder) customMetricCount() int {
	return len(r.customCounters) + len(r.customHistograms) + len(r.customGauges)
}

// IncrementCounter increments (creating on first use) a custom counter
// metric named name, with the given label values.
func (r *Recorder) IncrementCounter(name string, labels prometheus.Labels) error {
	counter, err := r.getOrCreateCounter(name, labels)
	if err != nil {
		return err
	}
	counter.With(labels).Inc()
	return nil
}

// RecordMetric records a value on a custom histogram metric named name,
// creating it on first use.
func (r *Recorder) RecordMetric(name string, value float64, labels prometheus.Labels) error {
	histogram, err := r.getOrCreateHistogram(name, labels)
	if err != nil {
		return err
	}
	histogram.With(labels).Observe(value)
	return nil
}

// SetGauge sets a custom gauge metric named name to value, creating it
// on first use.
func (r *Recorder) SetGauge(name string, value float64, labels prometheus.Labels) error {
	gauge, err := r.getOrCreateGauge(name, labels)
	if err != nil {
		return err
	}
	gauge.With(labels).Set(value)
	return nil
}

func labelNames(labels prometheus.Labels) []string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	return names
}

func (r *Recorder) getOrCreateCounter(name string, labels prometheus.Labels) (*prometheus.CounterVec, error) {
	r.customMu.RLock()
	counter, ok := r.customCounters[name]
	r.customMu.RUnlock()
	if ok {
		return counter, nil
	}

	if err := validateMetricName(name); err != nil {
		return nil, err
	}

	r.customMu.Lock()
	defer r.customMu.Unlock()
	if counter, ok := r.customCounters[name]; ok {
		return counter, nil
	}
	if r.customMetricCount() >= r.maxCustomMetrics {
		return nil, &LimitError{MetricName: name, Limit: r.maxCustomMetrics}
	}
	counter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name, Help: "Custom counter metric: " + name,
	}, labelNames(labels))
	if err := r.registry.Register(counter); err != nil {
		return nil, fmt.Errorf("registering counter %q: %w", name, err)
	}
	r.customCounters[name] = counter
	return counter, nil
}

func (r *Recorder) getOrCreateHistogram(name string, labels prometheus.Labels) (*prometheus.HistogramVec, error) {
	r.customMu.RLock()
	histogram, ok := r.customHistograms[name]
	r.customMu.RUnlock()
	if ok {
		return histogram, nil
	}

	if err := validateMetricName(name); err != nil {
		return nil, err
	}

	r.customMu.Lock()
	defer r.customMu.Unlock()
	if histogram, ok := r.customHistograms[name]; ok {
		return histogram, nil
	}
	if r.customMetricCount() >= r.maxCustomMetrics {
		return nil, &LimitError{MetricName: name, Limit: r.maxCustomMetrics}
	}
	histogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: name, Help: "Custom histogram metric: " + name,
	}, labelNames(labels))
	if err := r.registry.Register(histogram); err != nil {
		return nil, fmt.Errorf("registering histogram %q: %w", name, err)
	}
	r.customHistograms[name] = histogram
	return histogram, nil
}

func (r *Recorder) getOrCreateGauge(name string, labels prometheus.Labels) (*prometheus.GaugeVec, error) {
	r.customMu.RLock()
	gauge, ok := r.customGauges[name]
	r.customMu.RUnlock()
	if ok {
		return gauge, nil
	}

	if err := validateMetricName(name); err != nil {
		return nil, err
	}

	r.customMu.Lock()
	defer r.customMu.Unlock()
	if gauge, ok := r.customGauges[name]; ok {
		return gauge, nil
	}
	if r.customMetricCount() >= r.maxCustomMetrics {
		return nil, &LimitError{MetricName: name, Limit: r.maxCustomMetrics}
	}
	gauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name, Help: "Custom gauge metric: " + name,
	}, labelNames(labels))
	if err := r.registry.Register(gauge); err != nil {
		return nil, fmt.Errorf("registering gauge %q: %w", name, err)
	}
	r.customGauges[name] = gauge
	return gauge, nil
}
