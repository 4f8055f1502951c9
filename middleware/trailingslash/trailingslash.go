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

// Package trailingslash enforces a policy on paths with (or without) a
// trailing slash.
package trailingslash

import (
	"context"
	"net/http"
	"strings"

	"github.com/fango-http/fango"
)

// Policy defines how a trailing slash is handled.
type Policy int

const (
	// PolicyRemove redirects /users/ to /users. Root is never redirected.
	PolicyRemove Policy = iota
	// PolicyAdd redirects /users to /users/. Root is never redirected.
	PolicyAdd
	// PolicyStrict leaves the path untouched; a mismatched route simply 404s.
	PolicyStrict
)

// Option configures the trailing-slash policy.
type Option func(*config)

type config struct {
	policy Policy
}

func defaultConfig() *config { return &config{policy: PolicyRemove} }

// WithPolicy sets the trailing-slash policy. Default PolicyRemove.
func WithPolicy(p Policy) Option { return func(c *config) { c.policy = p } }

// Wrap wraps h (typically a *fango.Router) at the net/http layer, so the
// redirect decision happens before route matching — the only point a
// path can be rewritten before the trie walk runs (§4.3's dispatch
// happens inside h; this sits in front of it).
func Wrap(h http.Handler, opts ...Option) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			h.ServeHTTP(w, r)
			return
		}
		hasSlash := strings.HasSuffix(path, "/")
		switch cfg.policy {
		case PolicyRemove:
			if hasSlash {
				redirect308HTTP(w, r, strings.TrimSuffix(path, "/"))
				return
			}
		case PolicyAdd:
			if !hasSlash {
				redirect308HTTP(w, r, path+"/")
				return
			}
		case PolicyStrict:
		}
		h.ServeHTTP(w, r)
	})
}

func redirect308HTTP(w http.ResponseWriter, r *http.Request, newPath string) {
	newURL := *r.URL
	newURL.Path = newPath
	w.Header().Set("Location", newURL.String())
	w.WriteHeader(http.StatusPermanentRedirect)
}

// New returns a Fang enforcing the policy for requests that already
// matched a route. Because fangs compose around a specific trie node
// (§4.2), this runs after matching and so cannot redirect a path that
// never matched anything; use Wrap for that. Under PolicyStrict it
// passes every request through unchanged.
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			path := req.Path.Raw()
			if path == "/" {
				return inner(ctx, req)
			}
			hasSlash := strings.HasSuffix(path, "/")
			switch cfg.policy {
			case PolicyRemove:
				if hasSlash {
					return redirect308(path[:len(path)-1])
				}
			case PolicyAdd:
				if !hasSlash {
					return redirect308(path + "/")
				}
			case PolicyStrict:
			}
			return inner(ctx, req)
		}
	})
}

func redirect308(newPath string) *fango.Response {
	resp := fango.NewResponse(308)
	resp.Headers.Insert("Location", newPath)
	return resp
}
