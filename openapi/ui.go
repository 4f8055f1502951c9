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
	"fmt"

	"github.com/fango-http/fango"
)

const swaggerUITemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      SwaggerUIBundle({
        url: %q,
        dom_id: "#swagger-ui",
      })
    }
  </script>
</body>
</html>
`

// SpecPath returns the path the generated document is served from, derived
// from the Manager's configured UI path.
func (m *Manager) SpecPath() string {
	return m.cfg.uiPath + "/openapi.yaml"
}

// SpecHandler serves the current document as YAML. The document is
// regenerated on every call, so newly Registered routes show up immediately.
func (m *Manager) SpecHandler() fango.HandlerFunc {
	return func(ctx context.Context, req *fango.Request) *fango.Response {
		body, err := m.YAML()
		if err != nil {
			resp := &fango.Response{
				Status: 500,
				Kind:   fango.BodyBytes,
				Bytes:  []byte(fmt.Sprintf("openapi: failed to render spec: %v", err)),
			}
			resp.Headers = fango.NewResponseHeaders()
			return resp
		}
		resp := &fango.Response{Status: 200, Kind: fango.BodyBytes, Bytes: body}
		resp.Headers = fango.NewResponseHeaders()
		resp.Headers.Insert("Content-Type", "application/yaml; charset=utf-8")
		return resp
	}
}

// SwaggerUIHandler serves a minimal HTML page embedding Swagger UI, pointed
// at SpecPath. It links a CDN-hosted bundle rather than vendoring one, the
// way a framework that doesn't want to own static-asset packaging would.
func (m *Manager) SwaggerUIHandler() fango.HandlerFunc {
	page := []byte(fmt.Sprintf(swaggerUITemplate, m.cfg.title, m.SpecPath()))
	return func(ctx context.Context, req *fango.Request) *fango.Response {
		resp := &fango.Response{Status: 200, Kind: fango.BodyBytes, Bytes: page}
		resp.Headers = fango.NewResponseHeaders()
		resp.Headers.Insert("Content-Type", "text/html; charset=utf-8")
		return resp
	}
}
