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

package trailingslash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fango-http/fango"
)

func terminal(ctx context.Context, req *fango.Request) *fango.Response {
	return fango.NewResponse(200)
}

func TestNewRemovesTrailingSlashByDefault(t *testing.T) {
	fang := New()
	wrapped := fang.Build(terminal)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets/")
	resp := wrapped(req.Context(), req)

	require.Equal(t, 308, resp.Status)
	loc, ok := resp.Headers.Get("Location")
	require.True(t, ok)
	assert.Equal(t, "/widgets", loc)
}

func TestNewNeverRedirectsRoot(t *testing.T) {
	fang := New()
	wrapped := fang.Build(terminal)

	req := fango.NewRequest(t.Context(), fango.GET, "/")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 200, resp.Status)
}

func TestPolicyAddRedirectsWithoutSlash(t *testing.T) {
	fang := New(WithPolicy(PolicyAdd))
	wrapped := fang.Build(terminal)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	resp := wrapped(req.Context(), req)

	require.Equal(t, 308, resp.Status)
	loc, _ := resp.Headers.Get("Location")
	assert.Equal(t, "/widgets/", loc)
}

func TestPolicyStrictNeverRedirects(t *testing.T) {
	fang := New(WithPolicy(PolicyStrict))
	wrapped := fang.Build(terminal)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets/")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 200, resp.Status)
}

func TestWrapRedirectsAtHTTPLayer(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	wrapped := Wrap(inner)

	req := httptest.NewRequest(http.MethodGet, "/widgets/", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/widgets", rec.Header().Get("Location"))
}
