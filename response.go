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

package fango

import "strconv"

// BodyKind distinguishes the three shapes a Response body may take.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyBytes
	BodyStream
)

// Response is the value a handler or fang produces: a status code,
// response headers, and one of {no body, raw bytes with a content type,
// a stream}. Streaming is represented as a StreamFunc callback so a fang
// can wrap or replace it without buffering.
type Response struct {
	Status  int
	Headers *ResponseHeaders

	Kind   BodyKind
	Bytes  []byte
	Stream StreamFunc
}

// StreamFunc writes a streamed body to w, returning the first error
// encountered. Implementations of the write surface are an external
// collaborator (§1); the core only carries the callback.
type StreamFunc func(w ResponseWriter) error

// ResponseWriter is the minimal write surface a StreamFunc needs. The
// HTTP server adapter (an external collaborator) supplies the concrete
// implementation.
type ResponseWriter interface {
	Write(p []byte) (int, error)
}

// NewResponse returns a Response with fresh, empty headers and no body.
func NewResponse(status int) *Response {
	return &Response{Status: status, Headers: NewResponseHeaders()}
}

// WithBytes sets a raw-bytes body, setting Content-Type and
// Content-Length accordingly.
func (r *Response) WithBytes(contentType string, body []byte) *Response {
	r.Kind = BodyBytes
	r.Bytes = body
	r.Headers.Insert("Content-Type", contentType)
	r.Headers.Insert("Content-Length", strconv.Itoa(len(body)))
	return r
}

// WithStream sets a streamed body. Callers that know the length ahead of
// time should still set Content-Length explicitly; chunked responses
// should omit it.
func (r *Response) WithStream(contentType string, fn StreamFunc) *Response {
	r.Kind = BodyStream
	r.Stream = fn
	r.Headers.Insert("Content-Type", contentType)
	return r
}

// SetCookie appends a Set-Cookie header record (see ResponseHeaders.SetCookie).
func (r *Response) SetCookie(name, value string, directives func(*CookieDirectives)) {
	r.Headers.SetCookie(name, value, directives)
}

// StripBodyForHEAD clears the body while leaving Content-Type and
// Content-Length intact, per the HEAD contract in §6.
func (r *Response) StripBodyForHEAD() {
	r.Kind = BodyNone
	r.Bytes = nil
	r.Stream = nil
}

// NotFound is the default "no route matched" response, used both as the
// default catch and the default handler when a node has none, per
// §4.2 step 3.
func NotFound() *Response {
	return NewResponse(404).WithBytes("text/plain; charset=utf-8", []byte("404 Not Found"))
}

// BadRequest is the standard extractor-failure response (§4.4 step 3,
// §7), carrying a brief one-line diagnostic.
func BadRequest(message string) *Response {
	return NewResponse(400).WithBytes("text/plain; charset=utf-8", []byte(message))
}
