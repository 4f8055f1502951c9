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
	"context"
	"io"
	"log/slog"
)

var noop *slog.Logger

// NoopLogger returns a *slog.Logger that discards everything, the
// Router's default until WithLogger overrides it.
func NoopLogger() *slog.Logger {
	if noop == nil {
		noop = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return noop
}

type loggerKey struct{}

// WithRequestLogger attaches logger to ctx for downstream fangs/handlers
// to retrieve with RequestLogger.
func WithRequestLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// RequestLogger returns the logger attached by WithRequestLogger, or
// slog.Default() if none was attached.
func RequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// withRouterLogger returns ctx carrying r's logger, so fangs/handlers
// can call RequestLogger without threading the Router through
// explicitly. DispatchRequest calls it for every request.
func (r *Router) withRouterLogger(ctx context.Context) context.Context {
	return WithRequestLogger(ctx, r.logger)
}
