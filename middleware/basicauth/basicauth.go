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

// Package basicauth implements HTTP Basic Authentication (RFC 7617).
package basicauth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/fango-http/fango"
)

// Option configures the basic-auth fang.
type Option func(*config)

type config struct {
	users               map[string]string
	realm               string
	validator           func(username, password string) bool
	unauthorizedHandler func() *fango.Response
	skipPaths           map[string]bool
}

func defaultConfig() *config {
	return &config{
		users:               make(map[string]string),
		realm:               "Restricted",
		unauthorizedHandler: defaultUnauthorizedHandler,
		skipPaths:           make(map[string]bool),
	}
}

func defaultUnauthorizedHandler() *fango.Response {
	return fango.NewResponse(401).WithBytes("application/json; charset=utf-8",
		[]byte(`{"error":"unauthorized"}`))
}

// WithUsers sets the static username/password table checked when no
// WithValidator is configured.
func WithUsers(users map[string]string) Option { return func(c *config) { c.users = users } }

// WithRealm sets the realm advertised in WWW-Authenticate.
func WithRealm(realm string) Option { return func(c *config) { c.realm = realm } }

// WithValidator overrides credential checking with custom logic (e.g. a
// database lookup or bcrypt comparison).
func WithValidator(fn func(username, password string) bool) Option {
	return func(c *config) { c.validator = fn }
}

// WithUnauthorizedHandler overrides the 401 response built on failure.
func WithUnauthorizedHandler(fn func() *fango.Response) Option {
	return func(c *config) { c.unauthorizedHandler = fn }
}

// WithSkipPaths exempts exact paths from authentication.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.skipPaths[p] = true
		}
	}
}

type usernameKey struct{}

// New returns a Fang enforcing HTTP Basic Authentication. Credentials
// are validated with WithValidator if set, otherwise against the
// WithUsers table using a constant-time comparison.
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	authenticateHeader := `Basic realm="` + cfg.realm + `"`

	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			if cfg.skipPaths[req.Path.Raw()] {
				return inner(ctx, req)
			}

			username, password, ok := parseBasicAuth(req)
			if !ok {
				resp := cfg.unauthorizedHandler()
				resp.Headers.Insert("WWW-Authenticate", authenticateHeader)
				return resp
			}

			var authenticated bool
			if cfg.validator != nil {
				authenticated = cfg.validator(username, password)
			} else if expected, exists := cfg.users[username]; exists {
				authenticated = subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
			}

			if !authenticated {
				resp := cfg.unauthorizedHandler()
				resp.Headers.Insert("WWW-Authenticate", authenticateHeader)
				return resp
			}

			req.Set(usernameKey{}, username)
			return inner(ctx, req)
		}
	})
}

func parseBasicAuth(req *fango.Request) (username, password string, ok bool) {
	auth, present := req.Headers.Get("Authorization")
	if !present {
		return "", "", false
	}
	const prefix = "Basic "
	if !strings.HasPrefix(auth, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(auth[len(prefix):])
	if err != nil {
		return "", "", false
	}
	creds := string(decoded)
	i := strings.IndexByte(creds, ':')
	if i == -1 {
		return "", "", false
	}
	return creds[:i], creds[i+1:], true
}

// GetUsername retrieves the authenticated username stashed by New.
func GetUsername(req *fango.Request) string {
	if v, ok := req.Value(usernameKey{}); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
