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

// Package accesslog logs one structured record per request, after the
// outcome (status, duration) is known, with optional sampling and
// slow-request/error bypass.
package accesslog

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"log/slog"
	"strings"
	"time"

	"github.com/fango-http/fango"
	"github.com/fango-http/fango/middleware/requestid"
)

// Option configures the access-log fang.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	excludePaths    map[string]bool
	excludePrefixes []string
	slowThreshold   time.Duration
	logErrorsOnly   bool
	sampleRate      float64
}

func defaultConfig() *config {
	return &config{
		excludePaths: make(map[string]bool),
		sampleRate:   1.0,
	}
}

// WithLogger sets the slog.Logger records are written to. Without one,
// New returns a no-op fang.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// WithExcludePaths skips exact paths (e.g. health checks) entirely.
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// WithExcludePrefix skips every path under prefix.
func WithExcludePrefix(prefix string) Option {
	return func(c *config) { c.excludePrefixes = append(c.excludePrefixes, prefix) }
}

// WithSlowThreshold forces logging (bypassing sampling) for requests
// slower than d.
func WithSlowThreshold(d time.Duration) Option { return func(c *config) { c.slowThreshold = d } }

// WithErrorsOnly logs only requests whose status is >= 400, plus slow ones.
func WithErrorsOnly() Option { return func(c *config) { c.logErrorsOnly = true } }

// WithSampleRate logs a deterministic fraction (0..1] of non-error,
// non-slow requests, keyed by request ID so replicas agree.
func WithSampleRate(rate float64) Option { return func(c *config) { c.sampleRate = rate } }

// New returns a Fang logging one record per request once its outcome is
// known.
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			path := req.Path.Raw()
			if cfg.excludePaths[path] {
				return inner(ctx, req)
			}
			for _, prefix := range cfg.excludePrefixes {
				if strings.HasPrefix(path, prefix) {
					return inner(ctx, req)
				}
			}

			start := time.Now()
			resp := inner(ctx, req)
			duration := time.Since(start)

			if cfg.logger == nil {
				return resp
			}

			isError := resp.Status >= 400
			isSlow := cfg.slowThreshold > 0 && duration >= cfg.slowThreshold

			shouldLog := true
			if !isError && !isSlow {
				if cfg.logErrorsOnly {
					shouldLog = false
				} else if cfg.sampleRate < 1.0 {
					shouldLog = sampleByHash(requestid.Get(req), cfg.sampleRate)
				}
			}
			if !shouldLog {
				return resp
			}

			size := int64(len(resp.Bytes))
			fields := []any{
				"method", string(req.Method),
				"path", path,
				"status", resp.Status,
				"duration_ms", duration.Milliseconds(),
				"bytes_sent", size,
			}
			if isSlow {
				fields = append(fields, "slow", true)
			}

			switch {
			case resp.Status >= 500:
				cfg.logger.Error("access", fields...)
			case resp.Status >= 400:
				cfg.logger.Warn("access", fields...)
			case isSlow:
				cfg.logger.Warn("access", fields...)
			default:
				cfg.logger.Info("access", fields...)
			}

			return resp
		}
	})
}

// sampleByHash is a deterministic sampling decision keyed by id, so the
// same request ID always makes the same call across every replica.
func sampleByHash(id string, rate float64) bool {
	if id == "" {
		return true
	}
	if rate >= 1 {
		return true
	}
	h := sha256.Sum256([]byte(id))
	hashValue := binary.BigEndian.Uint64(h[:8])
	threshold := uint64(rate * float64(^uint64(0)))
	return hashValue <= threshold
}
