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

// Package security sets a conventional set of browser security headers
// on every response.
package security

import (
	"context"
	"fmt"

	"github.com/fango-http/fango"
)

// Option configures the security-headers fang.
type Option func(*config)

type config struct {
	frameOptions          string
	contentTypeNosniff    bool
	xssProtection         string
	hstsMaxAge            int
	hstsIncludeSubdomains bool
	hstsPreload           bool
	contentSecurityPolicy string
	referrerPolicy        string
	permissionsPolicy     string
	customHeaders         map[string]string
}

func defaultConfig() *config {
	return &config{
		frameOptions:          "DENY",
		contentTypeNosniff:    true,
		xssProtection:         "1; mode=block",
		hstsMaxAge:            31536000,
		hstsIncludeSubdomains: true,
		contentSecurityPolicy: "default-src 'self'",
		referrerPolicy:        "strict-origin-when-cross-origin",
		customHeaders:         make(map[string]string),
	}
}

// WithFrameOptions sets X-Frame-Options ("DENY", "SAMEORIGIN", ...).
func WithFrameOptions(value string) Option { return func(c *config) { c.frameOptions = value } }

// WithContentTypeNosniff toggles X-Content-Type-Options: nosniff.
func WithContentTypeNosniff(enabled bool) Option {
	return func(c *config) { c.contentTypeNosniff = enabled }
}

// WithXSSProtection sets X-XSS-Protection.
func WithXSSProtection(value string) Option { return func(c *config) { c.xssProtection = value } }

// WithHSTS configures Strict-Transport-Security; maxAge <= 0 disables it.
func WithHSTS(maxAge int, includeSubdomains, preload bool) Option {
	return func(c *config) {
		c.hstsMaxAge = maxAge
		c.hstsIncludeSubdomains = includeSubdomains
		c.hstsPreload = preload
	}
}

// WithContentSecurityPolicy sets Content-Security-Policy.
func WithContentSecurityPolicy(policy string) Option {
	return func(c *config) { c.contentSecurityPolicy = policy }
}

// WithReferrerPolicy sets Referrer-Policy.
func WithReferrerPolicy(policy string) Option {
	return func(c *config) { c.referrerPolicy = policy }
}

// WithPermissionsPolicy sets Permissions-Policy.
func WithPermissionsPolicy(policy string) Option {
	return func(c *config) { c.permissionsPolicy = policy }
}

// WithCustomHeader adds an arbitrary additional header.
func WithCustomHeader(name, value string) Option {
	return func(c *config) { c.customHeaders[name] = value }
}

// New returns a Fang that sets conventional security headers on every
// response. Unlike the HSTS header's usual "only over TLS" caveat, this
// fang has no visibility into the transport (the core's Request carries
// no TLS state — that's an external collaborator's concern per §6), so
// it sets HSTS unconditionally when configured; deployments terminating
// TLS upstream of fango should rely on WithHSTS(0, false, false) to
// disable it for plain-HTTP listeners.
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var hstsHeader string
	if cfg.hstsMaxAge > 0 {
		hstsHeader = fmt.Sprintf("max-age=%d", cfg.hstsMaxAge)
		if cfg.hstsIncludeSubdomains {
			hstsHeader += "; includeSubDomains"
		}
		if cfg.hstsPreload {
			hstsHeader += "; preload"
		}
	}

	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			resp := inner(ctx, req)

			if cfg.frameOptions != "" {
				resp.Headers.Insert("X-Frame-Options", cfg.frameOptions)
			}
			if cfg.contentTypeNosniff {
				resp.Headers.Insert("X-Content-Type-Options", "nosniff")
			}
			if cfg.xssProtection != "" {
				resp.Headers.Insert("X-XSS-Protection", cfg.xssProtection)
			}
			if hstsHeader != "" {
				resp.Headers.Insert("Strict-Transport-Security", hstsHeader)
			}
			if cfg.contentSecurityPolicy != "" {
				resp.Headers.Insert("Content-Security-Policy", cfg.contentSecurityPolicy)
			}
			if cfg.referrerPolicy != "" {
				resp.Headers.Insert("Referrer-Policy", cfg.referrerPolicy)
			}
			if cfg.permissionsPolicy != "" {
				resp.Headers.Insert("Permissions-Policy", cfg.permissionsPolicy)
			}
			for name, value := range cfg.customHeaders {
				resp.Headers.Insert(name, value)
			}
			return resp
		}
	})
}

// Development returns a Fang with settings relaxed for local development:
// same-origin framing, an inline-script-permissive CSP, and HSTS
// disabled. Do not use in production.
func Development() fango.Fang {
	return New(
		WithFrameOptions("SAMEORIGIN"),
		WithContentSecurityPolicy("default-src 'self' 'unsafe-inline' 'unsafe-eval'"),
		WithHSTS(0, false, false),
	)
}
