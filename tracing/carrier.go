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

package tracing

import "github.com/fango-http/fango"

// requestCarrier adapts *fango.RequestHeaders to propagation.TextMapCarrier
// for extracting an incoming trace context. Set is never called during
// extraction, so it is a no-op rather than mutating the request.
type requestCarrier struct {
	headers *fango.RequestHeaders
}

func (c requestCarrier) Get(key string) string {
	v, _ := c.headers.Get(key)
	return v
}

func (c requestCarrier) Set(key, value string) {}

func (c requestCarrier) Keys() []string {
	keys := make([]string, 0, c.headers.Size())
	c.headers.Iter(func(p fango.HeaderPair) { keys = append(keys, p.Name) })
	return keys
}

// responseCarrier adapts *fango.ResponseHeaders to propagation.TextMapCarrier
// for injecting the outgoing trace context. Get/Keys are never called during
// injection.
type responseCarrier struct {
	headers *fango.ResponseHeaders
}

func (c responseCarrier) Get(key string) string {
	v, _ := c.headers.Get(key)
	return v
}

func (c responseCarrier) Set(key, value string) { c.headers.Insert(key, value) }

func (c responseCarrier) Keys() []string {
	keys := make([]string, 0, c.headers.Size())
	c.headers.Iter(func(p fango.HeaderPair) { keys = append(keys, p.Name) })
	return keys
}
