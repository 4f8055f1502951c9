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

// Package timeout bounds how long a request may run before the caller
// gets a 408 response, regardless of whether the handler chain respects
// context cancellation on its own.
package timeout

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fango-http/fango"
)

// Option configures the timeout fang.
type Option func(*config)

type config struct {
	duration     time.Duration
	logger       *slog.Logger
	handler      func(req *fango.Request, timeout time.Duration) *fango.Response
	skipPaths    map[string]bool
	skipPrefixes []string
	skipSuffixes []string
	skipFunc     func(req *fango.Request) bool
}

func defaultConfig() *config {
	return &config{
		duration:  30 * time.Second,
		logger:    slog.Default(),
		handler:   defaultHandler,
		skipPaths: make(map[string]bool),
	}
}

func defaultHandler(req *fango.Request, d time.Duration) *fango.Response {
	return fango.NewResponse(408).WithBytes("application/json; charset=utf-8",
		[]byte(`{"error":"request timeout","timeout":"`+d.String()+`"}`))
}

// WithDuration sets how long a request may run before it is canceled.
func WithDuration(d time.Duration) Option { return func(c *config) { c.duration = d } }

// WithHandler overrides the response built on timeout.
func WithHandler(fn func(req *fango.Request, timeout time.Duration) *fango.Response) Option {
	return func(c *config) { c.handler = fn }
}

// WithoutLogging disables the warning logged on timeout.
func WithoutLogging() Option { return func(c *config) { c.logger = nil } }

// WithSkipPaths exempts exact paths from the timeout.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.skipPaths[p] = true
		}
	}
}

// WithSkipPrefix exempts every path under prefix from the timeout.
func WithSkipPrefix(prefix string) Option {
	return func(c *config) { c.skipPrefixes = append(c.skipPrefixes, prefix) }
}

// WithSkipSuffix exempts paths ending in suffix from the timeout.
func WithSkipSuffix(suffix string) Option {
	return func(c *config) { c.skipSuffixes = append(c.skipSuffixes, suffix) }
}

// WithSkip exempts requests for which fn returns true.
func WithSkip(fn func(req *fango.Request) bool) Option {
	return func(c *config) { c.skipFunc = fn }
}

func shouldSkip(cfg *config, req *fango.Request) bool {
	path := req.Path.Raw()
	if cfg.skipPaths[path] {
		return true
	}
	for _, prefix := range cfg.skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range cfg.skipSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return cfg.skipFunc != nil && cfg.skipFunc(req)
}

// New returns a Fang that runs inner with a context.WithTimeout-bounded
// context. A handler that respects ctx.Done() is canceled cooperatively;
// one that doesn't still gets a 408 surfaced to the caller once the
// deadline passes, while the orphaned goroutine finishes in the
// background (the Go timeout idiom: canceling a context never
// interrupts running code, it only signals it).
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			if shouldSkip(cfg, req) {
				return inner(ctx, req)
			}

			tctx, cancel := context.WithTimeout(ctx, cfg.duration)
			defer cancel()

			done := make(chan timeoutResult, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						done <- timeoutResult{panicVal: p}
					}
				}()
				done <- timeoutResult{resp: inner(tctx, req)}
			}()

			select {
			case res := <-done:
				if res.panicVal != nil {
					panic(res.panicVal)
				}
				return res.resp
			case <-tctx.Done():
				if !errors.Is(tctx.Err(), context.DeadlineExceeded) {
					// Parent context canceled (e.g. client disconnect), not
					// our own deadline; wait for the handler's real outcome.
					res := <-done
					if res.panicVal != nil {
						panic(res.panicVal)
					}
					return res.resp
				}
				if cfg.logger != nil {
					cfg.logger.Warn("request timeout",
						"method", string(req.Method),
						"path", req.Path.Raw(),
						"timeout", cfg.duration.String())
				}
				go func() {
					if res := <-done; res.panicVal != nil && cfg.logger != nil {
						cfg.logger.Error("panic after timeout", "panic", res.panicVal)
					}
				}()
				return cfg.handler(req, cfg.duration)
			}
		}
	})
}

type timeoutResult struct {
	resp     *fango.Response
	panicVal any
}
