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
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager collects Routes registered against it and generates an OpenAPI
// Spec document from them. Safe for concurrent use.
type Manager struct {
	cfg *Config

	mu     sync.Mutex
	routes []*Route
}

// NewManager builds a Manager from cfg.
func NewManager(cfg *Config) *Manager {
	return &Manager{cfg: cfg}
}

// Register adds a Route to the document. It returns the Route unchanged
// so registration can be chained with the fluent builder:
//
//	m.Register(openapi.NewRoute(fango.GET, "/widgets/:id").
//	    Summary("Get a widget").
//	    PathParam("id", openapi.String()))
func (m *Manager) Register(r *Route) *Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, r)
	return r
}

// Generate builds the Spec document from every Route registered so far.
func (m *Manager) Generate() *Spec {
	m.mu.Lock()
	defer m.mu.Unlock()

	spec := &Spec{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       m.cfg.title,
			Description: m.cfg.description,
			Version:     m.cfg.version,
			Contact:     m.cfg.contact,
			License:     m.cfg.license,
		},
		Paths: make(map[string]*PathItem, len(m.routes)),
	}
	for _, s := range m.cfg.servers {
		spec.Servers = append(spec.Servers, s)
	}
	spec.Tags = append(spec.Tags, m.cfg.tags...)

	for _, r := range m.routes {
		path := toOpenAPIPath(r.path)
		item, ok := spec.Paths[path]
		if !ok {
			item = &PathItem{}
			spec.Paths[path] = item
		}
		op := &Operation{
			Tags:        r.tags,
			Summary:     r.summary,
			Description: r.description,
			OperationID: r.operationID,
			Parameters:  r.params,
			RequestBody: r.requestBody,
			Responses:   r.responses,
			Deprecated:  r.deprecated,
		}
		if len(op.Responses) == 0 {
			op.Responses = map[string]*Response{"200": {Description: "OK"}}
		}
		attachOperation(item, r.method, op)
	}

	return spec
}

// YAML renders the current spec as a YAML document.
func (m *Manager) YAML() ([]byte, error) {
	return yaml.Marshal(m.Generate())
}

func attachOperation(item *PathItem, method Method, op *Operation) {
	switch method {
	case "GET":
		item.Get = op
	case "PUT":
		item.Put = op
	case "POST":
		item.Post = op
	case "PATCH":
		item.Patch = op
	case "DELETE":
		item.Delete = op
	case "OPTIONS":
		item.Options = op
	case "HEAD":
		item.Head = op
	}
}

// toOpenAPIPath rewrites fango's ":name" path-parameter syntax to
// OpenAPI's "{name}" syntax.
func toOpenAPIPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}
