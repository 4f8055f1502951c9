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

// Package cors implements Cross-Origin Resource Sharing as a fango.Fang.
//
// It plays the role §9's Open Question calls for: the core synthesizes
// an OPTIONS handler that answers 501 as a sentinel (§4.2), and this
// fang recognizes that sentinel and rewrites it to the real preflight
// response. Without this fang (or an equivalent), OPTIONS responses
// leak 501 to clients.
package cors

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/fango-http/fango"
)

// Option configures the CORS fang.
type Option func(*config)

type config struct {
	allowedOrigins   []string
	allowedHeaders   []string
	exposedHeaders   []string
	allowCredentials bool
	maxAge           int
	allowAllOrigins  bool
	allowOriginFunc  func(origin string) bool
}

func defaultConfig() *config {
	return &config{
		allowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		maxAge:         3600,
	}
}

// WithAllowedOrigins restricts accepted Origin values to an explicit list.
func WithAllowedOrigins(origins ...string) Option {
	return func(c *config) { c.allowedOrigins = origins }
}

// WithAllowAllOrigins sets Access-Control-Allow-Origin: * for every request.
func WithAllowAllOrigins(enable bool) Option {
	return func(c *config) { c.allowAllOrigins = enable }
}

// WithAllowOriginFunc validates each request's Origin dynamically.
func WithAllowOriginFunc(fn func(origin string) bool) Option {
	return func(c *config) { c.allowOriginFunc = fn }
}

// WithAllowedHeaders sets the Access-Control-Allow-Headers list advertised
// on preflight responses.
func WithAllowedHeaders(headers ...string) Option {
	return func(c *config) { c.allowedHeaders = headers }
}

// WithExposedHeaders sets Access-Control-Expose-Headers on actual responses.
func WithExposedHeaders(headers ...string) Option {
	return func(c *config) { c.exposedHeaders = headers }
}

// WithAllowCredentials sets Access-Control-Allow-Credentials: true. Cannot
// be combined with WithAllowAllOrigins without the fang falling back to
// echoing the specific request origin, per the CORS spec's restriction.
func WithAllowCredentials(enable bool) Option {
	return func(c *config) { c.allowCredentials = enable }
}

// WithMaxAge sets the preflight cache lifetime in seconds.
func WithMaxAge(seconds int) Option {
	return func(c *config) { c.maxAge = seconds }
}

type fang struct{ cfg *config }

// New returns a Fang handling CORS for every request it wraps: actual
// requests get Access-Control-Allow-Origin (and friends); OPTIONS
// preflight requests get the full set, and the core's 501 sentinel is
// rewritten to 200.
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return fang{cfg: cfg}
}

func (f fang) Build(inner fango.HandlerFunc) fango.HandlerFunc {
	allowedHeadersHeader := strings.Join(f.cfg.allowedHeaders, ", ")
	exposedHeadersHeader := strings.Join(f.cfg.exposedHeaders, ", ")
	maxAgeHeader := strconv.Itoa(f.cfg.maxAge)

	return func(ctx context.Context, req *fango.Request) *fango.Response {
		origin, hasOrigin := req.Headers.Get("Origin")
		resp := inner(ctx, req)

		if !hasOrigin {
			return resp
		}

		allowedOrigin := f.resolveOrigin(origin)
		if allowedOrigin == "" {
			return resp
		}

		if f.cfg.allowCredentials && allowedOrigin == "*" {
			resp.Headers.Insert("Access-Control-Allow-Origin", origin)
		} else {
			resp.Headers.Insert("Access-Control-Allow-Origin", allowedOrigin)
		}
		if f.cfg.allowCredentials {
			resp.Headers.Insert("Access-Control-Allow-Credentials", "true")
		}
		if exposedHeadersHeader != "" {
			resp.Headers.Insert("Access-Control-Expose-Headers", exposedHeadersHeader)
		}

		if req.Method == fango.OPTIONS && resp.Status == 501 {
			resp.Status = 200
			resp.Headers.Insert("Access-Control-Allow-Headers", allowedHeadersHeader)
			resp.Headers.Insert("Access-Control-Max-Age", maxAgeHeader)
		}

		return resp
	}
}

func (f fang) resolveOrigin(origin string) string {
	switch {
	case f.cfg.allowAllOrigins:
		return "*"
	case f.cfg.allowOriginFunc != nil:
		if f.cfg.allowOriginFunc(origin) {
			return origin
		}
		return ""
	case slices.Contains(f.cfg.allowedOrigins, origin):
		return origin
	default:
		return ""
	}
}
