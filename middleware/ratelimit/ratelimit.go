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

// Package ratelimit throttles requests with a token bucket, keyed
// per-request by a caller-supplied function (defaulting to the
// X-Forwarded-For header, then X-Real-IP, else "unknown").
package ratelimit

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/fango-http/fango"
)

// KeyFunc derives the rate-limit bucket key for a request.
type KeyFunc func(req *fango.Request) string

// Meta carries rate-limit bookkeeping to OnExceeded callbacks.
type Meta struct {
	Limit        int
	Remaining    int
	ResetSeconds int
	Key          string
	Method       string
	Path         string
}

// Store provides token-bucket storage; InMemoryStore is the default.
type Store interface {
	Allow(key string, now time.Time) (allowed bool, remaining, resetSeconds int)
}

// Option configures the rate-limit fang.
type Option func(*config)

type config struct {
	requestsPerSecond int
	burst             int
	keyFunc           KeyFunc
	store             Store
	headers           bool
	enforce           bool
	onExceeded        func(req *fango.Request, meta Meta) *fango.Response
	logger            *slog.Logger
}

func defaultConfig() *config {
	return &config{
		requestsPerSecond: 100,
		burst:             20,
		headers:           true,
		enforce:           true,
		keyFunc:           func(req *fango.Request) string { return "header:" + requestIP(req) },
	}
}

func requestIP(req *fango.Request) string {
	if v, ok := req.Headers.Get("X-Forwarded-For"); ok {
		return v
	}
	if v, ok := req.Headers.Get("X-Real-IP"); ok {
		return v
	}
	return "unknown"
}

// WithRequestsPerSecond sets the bucket refill rate.
func WithRequestsPerSecond(n int) Option { return func(c *config) { c.requestsPerSecond = n } }

// WithBurst sets the bucket capacity.
func WithBurst(n int) Option { return func(c *config) { c.burst = n } }

// WithKey overrides the bucket key derivation.
func WithKey(fn KeyFunc) Option { return func(c *config) { c.keyFunc = fn } }

// WithStore overrides the token-bucket backing store (e.g. a shared
// store across fangs, or a distributed implementation).
func WithStore(s Store) Option { return func(c *config) { c.store = s } }

// WithoutHeaders disables emitting the RateLimit-* response headers.
func WithoutHeaders() Option { return func(c *config) { c.headers = false } }

// WithReportOnly makes the fang set headers but never block requests.
func WithReportOnly() Option { return func(c *config) { c.enforce = false } }

// WithOnExceeded overrides the response built when the limit is hit.
func WithOnExceeded(fn func(req *fango.Request, meta Meta) *fango.Response) Option {
	return func(c *config) { c.onExceeded = fn }
}

// WithLogger stores a logger in the fang's configuration; the fang
// itself writes no log records.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

func defaultExceeded(_ *fango.Request, meta Meta) *fango.Response {
	resp := fango.NewResponse(429).WithBytes("application/json; charset=utf-8",
		[]byte(`{"error":"too many requests"}`))
	resp.Headers.Insert("Retry-After", strconv.Itoa(meta.ResetSeconds))
	return resp
}

// New returns a Fang enforcing a token-bucket rate limit per key.
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.store == nil {
		cfg.store = NewInMemoryStore(cfg.requestsPerSecond, cfg.burst)
	}
	if cfg.onExceeded == nil {
		cfg.onExceeded = defaultExceeded
	}

	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			key := cfg.keyFunc(req)
			allowed, remaining, resetSeconds := cfg.store.Allow(key, time.Now())

			resp := func() *fango.Response {
				if !allowed && cfg.enforce {
					return cfg.onExceeded(req, Meta{
						Limit: cfg.burst, Remaining: 0, ResetSeconds: resetSeconds,
						Key: key, Method: string(req.Method), Path: req.Path.Raw(),
					})
				}
				return inner(ctx, req)
			}()

			if cfg.headers {
				resp.Headers.Insert("RateLimit-Limit", strconv.Itoa(cfg.burst))
				resp.Headers.Insert("RateLimit-Remaining", strconv.Itoa(remaining))
				resp.Headers.Insert("RateLimit-Reset", strconv.Itoa(resetSeconds))
			}
			return resp
		}
	})
}
