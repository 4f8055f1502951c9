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

package recovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fango-http/fango"
)

func TestPassesThroughWhenNoPanic(t *testing.T) {
	fang := New()
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { return fango.NewResponse(200) }
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 200, resp.Status)
}

func TestRecoversPanicAs500(t *testing.T) {
	fang := New(WithLogger(func(ctx context.Context, err any, stack []byte) {}))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response {
		panic("boom")
	}
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	resp := wrapped(req.Context(), req)
	require.Equal(t, 500, resp.Status)
}

func TestWithHandlerOverridesResponse(t *testing.T) {
	fang := New(
		WithLogger(func(ctx context.Context, err any, stack []byte) {}),
		WithHandler(func(err any) *fango.Response { return fango.NewResponse(503) }),
	)
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { panic("down") }
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 503, resp.Status)
}

func TestLoggerReceivesPanicValue(t *testing.T) {
	var captured any
	fang := New(WithLogger(func(ctx context.Context, err any, stack []byte) { captured = err }))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { panic("specific failure") }
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	wrapped(req.Context(), req)

	assert.Equal(t, "specific failure", captured)
}

func TestWithStackTraceDisabledSkipsCapture(t *testing.T) {
	var stackLen int
	fang := New(
		WithStackTrace(false),
		WithLogger(func(ctx context.Context, err any, stack []byte) { stackLen = len(stack) }),
	)
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { panic("boom") }
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	wrapped(req.Context(), req)

	assert.Zero(t, stackLen)
}
