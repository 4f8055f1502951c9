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

package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/fango-http/fango"
)

// Fang returns a fango.Fang recording request count, latency, in-flight
// count, and request/response size against r for every request that
// reaches it. Unlike the teacher's http.ResponseWriter-wrapping
// middleware, this fang reads size and status directly off the already
// fully-built *fango.Response — no writer wrapper is needed.
func Fang(r *Recorder) fango.Fang {
	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			if !r.enabled {
				return inner(ctx, req)
			}

			path := req.Path.Raw()
			if r.pathFilter.shouldExclude(path) {
				return inner(ctx, req)
			}

			method := string(req.Method)
			start := time.Now()

			r.activeRequests.WithLabelValues(method, path).Inc()
			if cl, ok := req.Headers.Get("Content-Length"); ok {
				if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n > 0 {
					r.requestSize.WithLabelValues(method, path).Observe(float64(n))
				}
			} else if len(req.Body) > 0 {
				r.requestSize.WithLabelValues(method, path).Observe(float64(len(req.Body)))
			}

			resp := inner(ctx, req)

			r.activeRequests.WithLabelValues(method, path).Dec()

			status := 200
			if resp != nil {
				status = resp.Status
			}
			statusClass := getStatusClass(status)

			labels := []string{method, path, statusClass}
			for _, h := range r.recordHeadersLow {
				v, _ := req.Headers.Get(h)
				labels = append(labels, v)
			}

			r.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			r.requestCount.WithLabelValues(labels...).Inc()
			if status >= 400 {
				r.errorCount.WithLabelValues(labels...).Inc()
			}
			if resp != nil && resp.Kind == fango.BodyBytes && len(resp.Bytes) > 0 {
				r.responseSize.WithLabelValues(method, path).Observe(float64(len(resp.Bytes)))
			}

			return resp
		}
	})
}
