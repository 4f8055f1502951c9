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

package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fango-http/fango"
)

func terminal(ctx context.Context, req *fango.Request) *fango.Response {
	return fango.NewResponse(200)
}

func TestDefaultsSetConventionalHeaders(t *testing.T) {
	fang := New()
	wrapped := fang.Build(terminal)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	resp := wrapped(req.Context(), req)

	frame, ok := resp.Headers.Get("X-Frame-Options")
	require.True(t, ok)
	assert.Equal(t, "DENY", frame)

	nosniff, ok := resp.Headers.Get("X-Content-Type-Options")
	require.True(t, ok)
	assert.Equal(t, "nosniff", nosniff)

	hsts, ok := resp.Headers.Get("Strict-Transport-Security")
	require.True(t, ok)
	assert.Contains(t, hsts, "max-age=31536000")
	assert.Contains(t, hsts, "includeSubDomains")
}

func TestWithHSTSZeroMaxAgeOmitsHeader(t *testing.T) {
	fang := New(WithHSTS(0, false, false))
	wrapped := fang.Build(terminal)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	resp := wrapped(req.Context(), req)

	_, ok := resp.Headers.Get("Strict-Transport-Security")
	assert.False(t, ok)
}

func TestWithCustomHeaderIsApplied(t *testing.T) {
	fang := New(WithCustomHeader("X-Custom", "value"))
	wrapped := fang.Build(terminal)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	resp := wrapped(req.Context(), req)

	v, ok := resp.Headers.Get("X-Custom")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestDevelopmentRelaxesFramingAndDisablesHSTS(t *testing.T) {
	fang := Development()
	wrapped := fang.Build(terminal)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	resp := wrapped(req.Context(), req)

	frame, _ := resp.Headers.Get("X-Frame-Options")
	assert.Equal(t, "SAMEORIGIN", frame)

	_, hasHSTS := resp.Headers.Get("Strict-Transport-Security")
	assert.False(t, hasHSTS)
}
