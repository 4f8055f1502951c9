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

// Package requestid stamps every request with a correlation ID, usable
// by downstream fangs (accesslog, tracing) and surfaced to handlers via
// context.
package requestid

import (
	"context"

	"github.com/google/uuid"

	"github.com/fango-http/fango"
)

// Option configures the request-id fang.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     func() string { return uuid.New().String() },
		allowClientID: true,
	}
}

// WithHeader overrides the header name used to read and set the ID.
func WithHeader(name string) Option { return func(c *config) { c.headerName = name } }

// WithGenerator overrides how a new ID is generated when none is supplied
// by the client (or client IDs are disallowed).
func WithGenerator(fn func() string) Option { return func(c *config) { c.generator = fn } }

// WithAllowClientID controls whether an incoming request's own header
// value is trusted instead of generating a new one.
func WithAllowClientID(allow bool) Option { return func(c *config) { c.allowClientID = allow } }

type contextKey struct{}

// New returns a Fang that assigns a request ID: reused from the incoming
// header when allowed and present, generated otherwise. The ID is
// written back to the response header and stashed in the request
// context for Get and other fangs to read.
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			var id string
			if cfg.allowClientID {
				id, _ = req.Headers.Get(cfg.headerName)
			}
			if id == "" {
				id = cfg.generator()
			}
			req.Set(contextKey{}, id)
			resp := inner(ctx, req)
			resp.Headers.Insert(cfg.headerName, id)
			return resp
		}
	})
}

// Get retrieves the request ID stashed by New, or "" if absent.
func Get(req *fango.Request) string {
	if v, ok := req.Value(contextKey{}); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
