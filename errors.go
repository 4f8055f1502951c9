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

import "errors"

// Static errors for the build phase. None of them surfaces as an HTTP
// response. Route-literal parsing, Builder.Register and Builder.Merge
// return them as errors to the caller; only ErrPathParamCountMismatch is
// raised as a panic, by Builder.Finalize.
var (
	ErrDuplicateRoute       = errors.New("fango: duplicate route registration")
	ErrHandlerAlreadyAtJoin = errors.New("fango: handler already set at merge join point")
	ErrEmptyParamSegment    = errors.New("fango: param segment captured empty value")
	ErrInvalidRouteLiteral  = errors.New("fango: route literal must begin with '/'")
	ErrMergeRootHasHandler  = errors.New("fango: merged sub-router root must not have a handler at '/'")
	ErrPathParamCountMismatch = errors.New("fango: handler's declared path-param count does not match route")
	ErrUnknownMethod        = errors.New("fango: unsupported HTTP method")

	// Request-time errors, always surfaced as a Response rather than
	// returned from dispatch; retained here for callers (fangs, tests)
	// that want to compare against a sentinel.
	ErrExtractionFailed = errors.New("fango: request parameter extraction failed")
	ErrResponseWriterNotHijacker = errors.New("fango: response writer does not implement http.Hijacker")
)
