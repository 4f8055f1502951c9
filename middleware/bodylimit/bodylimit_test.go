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

package bodylimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fango-http/fango"
)

func TestAllowsBodyUnderLimit(t *testing.T) {
	fang := New(WithLimit(10))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { return fango.NewResponse(200) }
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.POST, "/widgets")
	req.Body = []byte("tiny")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 200, resp.Status)
}

func TestRejectsBodyOverLimit(t *testing.T) {
	fang := New(WithLimit(4))
	called := false
	inner := func(ctx context.Context, req *fango.Request) *fango.Response {
		called = true
		return fango.NewResponse(200)
	}
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.POST, "/widgets")
	req.Body = []byte("way too large")
	resp := wrapped(req.Context(), req)

	require.False(t, called)
	assert.Equal(t, 413, resp.Status)
}

func TestRejectsSpoofedContentLength(t *testing.T) {
	fang := New(WithLimit(4))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { return fango.NewResponse(200) }
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.POST, "/widgets")
	req.Headers.Insert("Content-Length", "999999")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 413, resp.Status)
}

func TestWithSkipPathsBypassesLimit(t *testing.T) {
	fang := New(WithLimit(1), WithSkipPaths("/upload"))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { return fango.NewResponse(200) }
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.POST, "/upload")
	req.Body = []byte("plenty of bytes here")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 200, resp.Status)
}

func TestWithErrorHandlerOverridesResponse(t *testing.T) {
	fang := New(WithLimit(1), WithErrorHandler(func(req *fango.Request, limit int64) *fango.Response {
		return fango.NewResponse(422)
	}))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { return fango.NewResponse(200) }
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.POST, "/widgets")
	req.Body = []byte("over the limit")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 422, resp.Status)
}
