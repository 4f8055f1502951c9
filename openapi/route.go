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

import "github.com/fango-http/fango"

// Route accumulates OpenAPI metadata for one (method, path) pair via a
// fluent builder, mirroring the way a fango.Doc is built up and attached
// to a Handler. A Route is only consumed by Manager.Generate; it carries
// no runtime behavior of its own.
type Route struct {
	method Method
	path   string

	summary     string
	description string
	operationID string
	tags        []string
	deprecated  bool

	params      []Parameter
	requestBody *RequestBody
	responses   map[string]*Response
}

// Method is the subset of fango.Method an OpenAPI operation documents
// (aliased so callers don't need to import fango just to build a Route).
type Method = fango.Method

// NewRoute starts a Route builder for method and path. path uses the
// same literal form as fango route registration (":name" segments);
// Manager.Generate rewrites those to OpenAPI's "{name}" form.
func NewRoute(method Method, path string) *Route {
	return &Route{method: method, path: path, responses: make(map[string]*Response)}
}

// Summary sets the operation's one-line summary.
func (r *Route) Summary(s string) *Route {
	r.summary = s
	return r
}

// Description sets the operation's detailed description.
func (r *Route) Description(d string) *Route {
	r.description = d
	return r
}

// OperationID sets a unique identifier for code generators.
func (r *Route) OperationID(id string) *Route {
	r.operationID = id
	return r
}

// Tags groups the operation under the given tag names.
func (r *Route) Tags(tags ...string) *Route {
	r.tags = append(r.tags, tags...)
	return r
}

// Deprecated marks the operation as deprecated.
func (r *Route) Deprecated() *Route {
	r.deprecated = true
	return r
}

// PathParam documents a path parameter; required is always true for these.
func (r *Route) PathParam(name string, schema *Schema) *Route {
	r.params = append(r.params, Parameter{Name: name, In: "path", Required: true, Schema: schema})
	return r
}

// QueryParam documents an optional or required query parameter.
func (r *Route) QueryParam(name string, schema *Schema, required bool) *Route {
	r.params = append(r.params, Parameter{Name: name, In: "query", Required: required, Schema: schema})
	return r
}

// HeaderParam documents a request header parameter.
func (r *Route) HeaderParam(name string, schema *Schema, required bool) *Route {
	r.params = append(r.params, Parameter{Name: name, In: "header", Required: required, Schema: schema})
	return r
}

// Request describes the request body's schema as application/json.
func (r *Route) Request(schema *Schema) *Route {
	r.requestBody = &RequestBody{
		Required: true,
		Content:  map[string]*MediaType{"application/json": {Schema: schema}},
	}
	return r
}

// Response documents the application/json response schema for status.
func (r *Route) Response(status, description string, schema *Schema) *Route {
	resp := &Response{Description: description}
	if schema != nil {
		resp.Content = map[string]*MediaType{"application/json": {Schema: schema}}
	}
	r.responses[status] = resp
	return r
}

// FromDoc seeds Summary, Description, and Tags from a fango.Doc, the
// metadata a Handler may already carry, so a route built from a
// registered Handler doesn't repeat information the handler declared.
func (r *Route) FromDoc(doc *fango.Doc) *Route {
	if doc == nil {
		return r
	}
	r.summary = doc.Summary
	r.description = doc.Description
	r.tags = append(r.tags, doc.Tags...)
	return r
}
