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

package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fango-http/fango"
)

func TestSpecHandlerServesYAML(t *testing.T) {
	cfg := MustNew(WithTitle("widgets", "1.0.0"))
	m := NewManager(cfg)
	m.Register(NewRoute(fango.GET, "/widgets").Summary("List widgets"))

	resp := m.SpecHandler()(context.Background(), &fango.Request{})

	require.Equal(t, 200, resp.Status)
	ct, ok := resp.Headers.Get("Content-Type")
	require.True(t, ok)
	assert.Contains(t, ct, "application/yaml")
	assert.Contains(t, string(resp.Bytes), "widgets")
}

func TestSwaggerUIHandlerPointsAtSpecPath(t *testing.T) {
	cfg := MustNew(WithTitle("widgets", "1.0.0"), WithUIPath("/api-docs"))
	m := NewManager(cfg)

	assert.Equal(t, "/api-docs/openapi.yaml", m.SpecPath())

	resp := m.SwaggerUIHandler()(context.Background(), &fango.Request{})
	require.Equal(t, 200, resp.Status)
	ct, ok := resp.Headers.Get("Content-Type")
	require.True(t, ok)
	assert.Contains(t, ct, "text/html")
	assert.True(t, strings.Contains(string(resp.Bytes), m.SpecPath()))
}
