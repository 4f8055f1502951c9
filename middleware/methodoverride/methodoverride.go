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

// Package methodoverride lets a client request a different HTTP method
// than the one it actually sent, for clients (HTML forms) that can only
// issue GET/POST.
//
// SECURITY WARNING: only enable this for clients you control. Without
// WithRequireCSRFToken, an attacker who can make a POST to your origin
// (a plain HTML form on another site) can forge any overridden method.
package methodoverride

import (
	"strings"

	"github.com/fango-http/fango"
)

// Option configures method override.
type Option func(*config)

type config struct {
	header           string
	queryParam       string
	allow            map[string]bool
	onlyOn           map[string]bool
	respectBody      bool
	requireCSRFToken bool
}

func defaultConfig() *config {
	return &config{
		header:     "X-HTTP-Method-Override",
		queryParam: "_method",
		allow:      map[string]bool{"PUT": true, "PATCH": true, "DELETE": true},
		onlyOn:     map[string]bool{"POST": true},
	}
}

// WithHeader sets the override header name. Default "X-HTTP-Method-Override".
func WithHeader(header string) Option { return func(c *config) { c.header = header } }

// WithQueryParam sets the override query parameter name, or "" to disable it.
func WithQueryParam(param string) Option { return func(c *config) { c.queryParam = param } }

// WithAllow sets which methods a request may override to.
func WithAllow(methods ...string) Option {
	return func(c *config) {
		c.allow = make(map[string]bool, len(methods))
		for _, m := range methods {
			c.allow[strings.ToUpper(m)] = true
		}
	}
}

// WithOnlyOn restricts which incoming methods are eligible for override.
func WithOnlyOn(methods ...string) Option {
	return func(c *config) {
		c.onlyOn = make(map[string]bool, len(methods))
		for _, m := range methods {
			c.onlyOn[strings.ToUpper(m)] = true
		}
	}
}

// WithRespectBody requires a non-empty body for the override to apply.
func WithRespectBody(required bool) Option { return func(c *config) { c.respectBody = required } }

// WithRequireCSRFToken requires a CSRF verification flag (set via Verified)
// before honoring an override.
func WithRequireCSRFToken(required bool) Option {
	return func(c *config) { c.requireCSRFToken = required }
}

type csrfVerifiedKey struct{}
type originalMethodKey struct{}

// Verified marks req as CSRF-verified, for Rewrite's WithRequireCSRFToken
// check; call this from a CSRF-checking step that runs first.
func Verified(req *fango.Request) { req.Set(csrfVerifiedKey{}, true) }

// Rewrite mutates req.Method in place according to the configured
// override rules. Unlike the other middleware in this tree, this is not
// a Fang: the core selects a request's method trie (§4.3) before any
// fang on that trie runs, so a method override has to happen earlier —
// call Rewrite right after building the Request and before
// Router.DispatchRequest.
func Rewrite(opts ...Option) func(req *fango.Request) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return func(req *fango.Request) {
		original := req.Method
		if !cfg.onlyOn[string(original)] {
			return
		}
		if cfg.requireCSRFToken {
			v, _ := req.Value(csrfVerifiedKey{})
			if verified, _ := v.(bool); !verified {
				return
			}
		}

		override, _ := req.Headers.Get(cfg.header)
		if override == "" && cfg.queryParam != "" {
			override, _ = req.Query(cfg.queryParam)
		}
		if override == "" {
			return
		}
		override = strings.ToUpper(strings.TrimSpace(override))
		if !cfg.allow[override] {
			return
		}
		if cfg.respectBody && len(req.Body) == 0 {
			return
		}

		req.Set(originalMethodKey{}, original)
		req.Method = fango.Method(override)
	}
}

// GetOriginalMethod returns the method the client actually sent, before
// any override applied by Rewrite.
func GetOriginalMethod(req *fango.Request) string {
	if v, ok := req.Value(originalMethodKey{}); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return string(req.Method)
}
