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

package tracing

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/fango-http/fango"
)

// Fang returns a fango.Fang that starts a span for every request that
// reaches it, extracting any incoming trace context and injecting the
// outgoing one, and ends the span with a status derived from the response
// once the inner handler returns.
func Fang(t *Tracer) fango.Fang {
	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			if !t.enabled {
				return inner(ctx, req)
			}

			path := req.Path.Raw()
			if t.pathFilter.shouldExclude(path) {
				return inner(ctx, req)
			}

			ctx = t.propagator.Extract(ctx, requestCarrier{req.Headers})

			if !t.shouldSample() {
				return inner(ctx, req)
			}

			spanName := string(req.Method) + " " + path
			ctx, span := t.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", string(req.Method)),
				attribute.String("http.target", path),
				attribute.String("http.route", path),
				attribute.String("service.name", t.serviceName),
				attribute.String("service.version", t.serviceVersion),
			)

			if t.recordParams {
				for i := 0; i < req.Path.ParamCount(); i++ {
					if value, ok := req.Path.Param(i); ok {
						span.SetAttributes(attribute.String(
							fmt.Sprintf("http.route.param.%d", i), value,
						))
					}
				}
			}

			for _, h := range t.recordHeadersLow {
				if value, ok := req.Headers.Get(h); ok {
					span.SetAttributes(attribute.String("http.request.header."+h, value))
				}
			}

			resp := inner(ctx, req)

			status := 200
			if resp != nil {
				status = resp.Status
			}
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= 400 {
				span.SetStatus(codes.Error, statusText(status))
			} else {
				span.SetStatus(codes.Ok, "")
			}

			if resp != nil {
				t.propagator.Inject(ctx, responseCarrier{resp.Headers})
			}

			return resp
		}
	})
}

func statusText(status int) string {
	return "HTTP " + strconv.Itoa(status)
}

var _ propagation.TextMapCarrier = requestCarrier{}
var _ propagation.TextMapCarrier = responseCarrier{}
