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

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Outcome is the three-way result a FromRequest extractor reports, per
// §4.4: a value, "absent" (the parameter does not apply to this
// request; the caller substitutes the zero value and continues), or a
// failure response that short-circuits the whole handler.
type Outcome int

const (
	Extracted Outcome = iota
	Absent
	Failed
)

// Result carries one Extractor's output.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Failure *Response
}

// Ok wraps a successfully extracted value.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v, Outcome: Extracted} }

// AbsentResult reports that this extractor found nothing applicable;
// the zero value of T is used downstream.
func AbsentResult[T any]() Result[T] { return Result[T]{Outcome: Absent} }

// FailResult short-circuits extraction with resp as the request's
// response.
func FailResult[T any](resp *Response) Result[T] { return Result[T]{Outcome: Failed, Failure: resp} }

// Extractor is the FromRequest protocol from §4.4: given the request
// and a cursor into its captured path params (advanced by exactly
// NPathParams on every call, so sibling extractors each see the next
// unclaimed param), produce a typed value.
type Extractor[T any] interface {
	Extract(ctx context.Context, req *Request, cursor *int) Result[T]
	NPathParams() int
}

// pathCursorError is returned by Extract when cursor addressing runs out
// of captured params; surfaced as a build-time mismatch at Finalize
// rather than relied upon at request time (§4.4: "mismatches are a
// build-time configuration error").
var pathCursorError = fmt.Errorf("fango: path param cursor exhausted")

// --- Built-in extractors -----------------------------------------------

type pathExtractor[T any] struct {
	parse func(string) (T, error)
}

func (pathExtractor[T]) NPathParams() int { return 1 }

func (e pathExtractor[T]) Extract(_ context.Context, req *Request, cursor *int) Result[T] {
	raw, ok := req.Param(*cursor)
	*cursor++
	if !ok {
		return FailResult[T](BadRequest(pathCursorError.Error()))
	}
	v, err := e.parse(raw)
	if err != nil {
		return FailResult[T](BadRequest("invalid path parameter: " + err.Error()))
	}
	return Ok(v)
}

// PathParam builds an Extractor that decodes one captured path
// parameter with parse, consuming exactly one position of the request's
// path-param cursor.
func PathParam[T any](parse func(string) (T, error)) Extractor[T] {
	return pathExtractor[T]{parse: parse}
}

// PathString extracts one path parameter verbatim.
func PathString() Extractor[string] {
	return PathParam(func(s string) (string, error) { return s, nil })
}

// PathInt extracts one path parameter as a base-10 int.
func PathInt() Extractor[int] {
	return PathParam(strconv.Atoi)
}

type queryExtractor[T any] struct {
	name  string
	parse func(string) (T, error)
}

func (queryExtractor[T]) NPathParams() int { return 0 }

func (e queryExtractor[T]) Extract(_ context.Context, req *Request, _ *int) Result[T] {
	raw, ok := req.Query(e.name)
	if !ok {
		return AbsentResult[T]()
	}
	v, err := e.parse(raw)
	if err != nil {
		return FailResult[T](BadRequest("invalid query parameter " + e.name + ": " + err.Error()))
	}
	return Ok(v)
}

// Query builds an Extractor reading the named query parameter, parsed
// with parse; absent when the parameter is not present at all.
func Query[T any](name string, parse func(string) (T, error)) Extractor[T] {
	return queryExtractor[T]{name: name, parse: parse}
}

// QueryString extracts a raw query parameter value.
func QueryString(name string) Extractor[string] {
	return Query(name, func(s string) (string, error) { return s, nil })
}

// QueryInt extracts a query parameter as a base-10 int.
func QueryInt(name string) Extractor[int] {
	return Query(name, strconv.Atoi)
}

type headerExtractor struct{ name string }

func (headerExtractor) NPathParams() int { return 0 }

func (e headerExtractor) Extract(_ context.Context, req *Request, _ *int) Result[string] {
	v, ok := req.Headers.Get(e.name)
	if !ok {
		return AbsentResult[string]()
	}
	return Ok(v)
}

// Header extracts the named request header's raw value.
func Header(name string) Extractor[string] { return headerExtractor{name: name} }

type jsonBodyExtractor[T any] struct{}

func (jsonBodyExtractor[T]) NPathParams() int { return 0 }

func (jsonBodyExtractor[T]) Extract(_ context.Context, req *Request, _ *int) Result[T] {
	var v T
	if len(req.Body) == 0 {
		return AbsentResult[T]()
	}
	if err := json.Unmarshal(req.Body, &v); err != nil {
		return FailResult[T](BadRequest("invalid JSON body: " + err.Error()))
	}
	return Ok(v)
}

// JSONBody decodes the request body as JSON into T; absent when the
// body is empty.
func JSONBody[T any]() Extractor[T] { return jsonBodyExtractor[T]{} }

// --- Handler wrapping (IntoHandler), arities 0 through 6 (§4.4: K >= 6) ---

// H0 wraps a handler taking no extracted parameters.
func H0(fn func(ctx context.Context, req *Request) *Response) *Handler {
	return &Handler{Func: func(ctx context.Context, req *Request) *Response { return fn(ctx, req) }}
}

// H1 wraps a handler taking one extracted parameter.
func H1[A any](e1 Extractor[A], fn func(ctx context.Context, req *Request, a A) *Response) *Handler {
	return &Handler{
		PathParams: e1.NPathParams(),
		Func: func(ctx context.Context, req *Request) *Response {
			cursor := 0
			r1 := e1.Extract(ctx, req, &cursor)
			if r1.Outcome == Failed {
				return r1.Failure
			}
			return fn(ctx, req, r1.Value)
		},
	}
}

// H2 wraps a handler taking two extracted parameters.
func H2[A, B any](e1 Extractor[A], e2 Extractor[B], fn func(ctx context.Context, req *Request, a A, b B) *Response) *Handler {
	return &Handler{
		PathParams: e1.NPathParams() + e2.NPathParams(),
		Func: func(ctx context.Context, req *Request) *Response {
			cursor := 0
			r1 := e1.Extract(ctx, req, &cursor)
			if r1.Outcome == Failed {
				return r1.Failure
			}
			r2 := e2.Extract(ctx, req, &cursor)
			if r2.Outcome == Failed {
				return r2.Failure
			}
			return fn(ctx, req, r1.Value, r2.Value)
		},
	}
}

// H3 wraps a handler taking three extracted parameters.
func H3[A, B, C any](e1 Extractor[A], e2 Extractor[B], e3 Extractor[C], fn func(ctx context.Context, req *Request, a A, b B, c C) *Response) *Handler {
	return &Handler{
		PathParams: e1.NPathParams() + e2.NPathParams() + e3.NPathParams(),
		Func: func(ctx context.Context, req *Request) *Response {
			cursor := 0
			r1 := e1.Extract(ctx, req, &cursor)
			if r1.Outcome == Failed {
				return r1.Failure
			}
			r2 := e2.Extract(ctx, req, &cursor)
			if r2.Outcome == Failed {
				return r2.Failure
			}
			r3 := e3.Extract(ctx, req, &cursor)
			if r3.Outcome == Failed {
				return r3.Failure
			}
			return fn(ctx, req, r1.Value, r2.Value, r3.Value)
		},
	}
}

// H4 wraps a handler taking four extracted parameters.
func H4[A, B, C, D any](e1 Extractor[A], e2 Extractor[B], e3 Extractor[C], e4 Extractor[D], fn func(ctx context.Context, req *Request, a A, b B, c C, d D) *Response) *Handler {
	return &Handler{
		PathParams: e1.NPathParams() + e2.NPathParams() + e3.NPathParams() + e4.NPathParams(),
		Func: func(ctx context.Context, req *Request) *Response {
			cursor := 0
			r1 := e1.Extract(ctx, req, &cursor)
			if r1.Outcome == Failed {
				return r1.Failure
			}
			r2 := e2.Extract(ctx, req, &cursor)
			if r2.Outcome == Failed {
				return r2.Failure
			}
			r3 := e3.Extract(ctx, req, &cursor)
			if r3.Outcome == Failed {
				return r3.Failure
			}
			r4 := e4.Extract(ctx, req, &cursor)
			if r4.Outcome == Failed {
				return r4.Failure
			}
			return fn(ctx, req, r1.Value, r2.Value, r3.Value, r4.Value)
		},
	}
}

// H5 wraps a handler taking five extracted parameters.
func H5[A, B, C, D, E any](e1 Extractor[A], e2 Extractor[B], e3 Extractor[C], e4 Extractor[D], e5 Extractor[E], fn func(ctx context.Context, req *Request, a A, b B, c C, d D, e E) *Response) *Handler {
	return &Handler{
		PathParams: e1.NPathParams() + e2.NPathParams() + e3.NPathParams() + e4.NPathParams() + e5.NPathParams(),
		Func: func(ctx context.Context, req *Request) *Response {
			cursor := 0
			r1 := e1.Extract(ctx, req, &cursor)
			if r1.Outcome == Failed {
				return r1.Failure
			}
			r2 := e2.Extract(ctx, req, &cursor)
			if r2.Outcome == Failed {
				return r2.Failure
			}
			r3 := e3.Extract(ctx, req, &cursor)
			if r3.Outcome == Failed {
				return r3.Failure
			}
			r4 := e4.Extract(ctx, req, &cursor)
			if r4.Outcome == Failed {
				return r4.Failure
			}
			r5 := e5.Extract(ctx, req, &cursor)
			if r5.Outcome == Failed {
				return r5.Failure
			}
			return fn(ctx, req, r1.Value, r2.Value, r3.Value, r4.Value, r5.Value)
		},
	}
}

// H6 wraps a handler taking six extracted parameters, the floor §4.4
// requires ("K >= 6").
func H6[A, B, C, D, E, F any](e1 Extractor[A], e2 Extractor[B], e3 Extractor[C], e4 Extractor[D], e5 Extractor[E], e6 Extractor[F], fn func(ctx context.Context, req *Request, a A, b B, c C, d D, e E, f F) *Response) *Handler {
	return &Handler{
		PathParams: e1.NPathParams() + e2.NPathParams() + e3.NPathParams() + e4.NPathParams() + e5.NPathParams() + e6.NPathParams(),
		Func: func(ctx context.Context, req *Request) *Response {
			cursor := 0
			r1 := e1.Extract(ctx, req, &cursor)
			if r1.Outcome == Failed {
				return r1.Failure
			}
			r2 := e2.Extract(ctx, req, &cursor)
			if r2.Outcome == Failed {
				return r2.Failure
			}
			r3 := e3.Extract(ctx, req, &cursor)
			if r3.Outcome == Failed {
				return r3.Failure
			}
			r4 := e4.Extract(ctx, req, &cursor)
			if r4.Outcome == Failed {
				return r4.Failure
			}
			r5 := e5.Extract(ctx, req, &cursor)
			if r5.Outcome == Failed {
				return r5.Failure
			}
			r6 := e6.Extract(ctx, req, &cursor)
			if r6.Outcome == Failed {
				return r6.Failure
			}
			return fn(ctx, req, r1.Value, r2.Value, r3.Value, r4.Value, r5.Value, r6.Value)
		},
	}
}
