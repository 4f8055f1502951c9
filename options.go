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

package fango

import (
	"log/slog"
	"time"
)

// Option configures a Router at Finalize time.
type Option func(*Router)

// WithLogger attaches logger; fangs and handlers reach it through the
// request context (see RequestLogger).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithH2C enables HTTP/2 cleartext support in Serve.
//
// Only use behind a trusted load balancer or in local development;
// h2c accepts HTTP/2 over plain TCP with no TLS.
func WithH2C(enable bool) Option {
	return func(r *Router) { r.enableH2C = enable }
}

// WithServerTimeouts overrides the default http.Server timeouts Serve
// configures.
func WithServerTimeouts(readHeader, read, write, idle int) Option {
	return func(r *Router) {
		r.serverTimeouts = serverTimeouts{
			readHeader: durationSeconds(readHeader),
			read:       durationSeconds(read),
			write:      durationSeconds(write),
			idle:       durationSeconds(idle),
		}
	}
}

func durationSeconds(s int) time.Duration { return time.Duration(s) * time.Second }
