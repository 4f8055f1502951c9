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

// Package recovery converts a handler or fang panic into a 500 response.
// §7 is explicit that the core itself does not catch panics; this fang
// is the designated collaborator that does.
package recovery

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/fango-http/fango"
)

// Option configures the recovery fang.
type Option func(*config)

type config struct {
	stackTrace bool
	stackSize  int
	logger     func(ctx context.Context, err any, stack []byte)
	handler    func(err any) *fango.Response
}

func defaultConfig() *config {
	return &config{
		stackTrace: true,
		stackSize:  4 << 10,
		logger:     defaultLogger,
		handler:    defaultHandler,
	}
}

func defaultLogger(ctx context.Context, err any, stack []byte) {
	fango.RequestLogger(ctx).Error("panic recovered", slog.Any("panic", err), slog.String("stack", string(stack)))
}

func defaultHandler(_ any) *fango.Response {
	return fango.NewResponse(500).WithBytes("application/json; charset=utf-8",
		[]byte(`{"error":"internal server error"}`))
}

// WithStackTrace enables/disables capturing a stack trace on panic.
func WithStackTrace(enable bool) Option { return func(c *config) { c.stackTrace = enable } }

// WithStackSize caps the captured stack trace to n bytes.
func WithStackSize(n int) Option { return func(c *config) { c.stackSize = n } }

// WithLogger overrides how a recovered panic is logged.
func WithLogger(fn func(ctx context.Context, err any, stack []byte)) Option {
	return func(c *config) { c.logger = fn }
}

// WithHandler overrides the response built for a recovered panic.
func WithHandler(fn func(err any) *fango.Response) Option {
	return func(c *config) { c.handler = fn }
}

// New returns a Fang that recovers from panics raised by inner or
// anything it calls, logs them, and responds 500. It should typically
// be the outermost fang in a chain so it can catch panics from every
// other fang too.
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) (resp *fango.Response) {
			defer func() {
				if err := recover(); err != nil {
					var stack []byte
					if cfg.stackTrace {
						full := debug.Stack()
						if len(full) > cfg.stackSize {
							full = full[:cfg.stackSize]
						}
						stack = full
					}
					if cfg.logger != nil {
						cfg.logger(ctx, err, stack)
					}
					if cfg.handler != nil {
						resp = cfg.handler(err)
					} else {
						resp = defaultHandler(err)
					}
				}
			}()
			return inner(ctx, req)
		}
	})
}
