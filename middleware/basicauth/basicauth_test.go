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

package basicauth

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fango-http/fango"
)

func basicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func newReq(t *testing.T, header string) *fango.Request {
	req := fango.NewRequest(t.Context(), fango.GET, "/secret")
	if header != "" {
		req.Headers.Insert("Authorization", header)
	}
	return req
}

func TestRejectsMissingAuthorization(t *testing.T) {
	fang := New(WithUsers(map[string]string{"alice": "hunter2"}))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { return fango.NewResponse(200) }
	wrapped := fang.Build(inner)

	req := newReq(t, "")
	resp := wrapped(req.Context(), req)

	require.Equal(t, 401, resp.Status)
	challenge, ok := resp.Headers.Get("WWW-Authenticate")
	require.True(t, ok)
	assert.Contains(t, challenge, "Restricted")
}

func TestAcceptsValidCredentials(t *testing.T) {
	fang := New(WithUsers(map[string]string{"alice": "hunter2"}))
	var seenUser string
	inner := func(ctx context.Context, req *fango.Request) *fango.Response {
		seenUser = GetUsername(req)
		return fango.NewResponse(200)
	}
	wrapped := fang.Build(inner)

	req := newReq(t, basicHeader("alice", "hunter2"))
	resp := wrapped(req.Context(), req)

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "alice", seenUser)
}

func TestRejectsWrongPassword(t *testing.T) {
	fang := New(WithUsers(map[string]string{"alice": "hunter2"}))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { return fango.NewResponse(200) }
	wrapped := fang.Build(inner)

	req := newReq(t, basicHeader("alice", "wrong"))
	resp := wrapped(req.Context(), req)

	assert.Equal(t, 401, resp.Status)
}

func TestWithValidatorOverridesUserTable(t *testing.T) {
	fang := New(WithValidator(func(username, password string) bool {
		return username == "service" && password == "token"
	}))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { return fango.NewResponse(200) }
	wrapped := fang.Build(inner)

	req := newReq(t, basicHeader("service", "token"))
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 200, resp.Status)
}

func TestWithSkipPathsBypassesAuth(t *testing.T) {
	fang := New(WithUsers(map[string]string{"alice": "hunter2"}), WithSkipPaths("/healthz"))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response { return fango.NewResponse(200) }
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.GET, "/healthz")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 200, resp.Status)
}
