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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handlerSetWith(method Method, fn HandlerFunc) *HandlerSet {
	hs := NewHandlerSet()
	hs.Set(method, &Handler{Func: fn})
	return hs
}

func okHandler(body string) HandlerFunc {
	return func(ctx context.Context, req *Request) *Response {
		return NewResponse(200).WithBytes("text/plain", []byte(body))
	}
}

func TestDispatchStaticRoute(t *testing.T) {
	b := New()
	require.NoError(t, b.Register("/widgets", handlerSetWith(GET, okHandler("list"))))
	router := b.Finalize()

	req := NewRequest(t.Context(), GET, "/widgets")
	resp := router.DispatchRequest(req.Context(), req)

	require.Equal(t, 200, resp.Status)
	assert.Equal(t, "list", string(resp.Bytes))
}

func TestDispatchCapturesPathParam(t *testing.T) {
	b := New()
	require.NoError(t, b.Register("/widgets/:id", handlerSetWith(GET, func(ctx context.Context, req *Request) *Response {
		id, _ := req.Param(0)
		return NewResponse(200).WithBytes("text/plain", []byte(id))
	})))
	router := b.Finalize()

	req := NewRequest(t.Context(), GET, "/widgets/42")
	resp := router.DispatchRequest(req.Context(), req)

	require.Equal(t, 200, resp.Status)
	assert.Equal(t, "42", string(resp.Bytes))
}

func TestDispatchUnmatchedPathIs404(t *testing.T) {
	b := New()
	require.NoError(t, b.Register("/widgets", handlerSetWith(GET, okHandler("list"))))
	router := b.Finalize()

	req := NewRequest(t.Context(), GET, "/nope")
	resp := router.DispatchRequest(req.Context(), req)
	assert.Equal(t, 404, resp.Status)
}

func TestHEADFallsBackToGETAndStripsBody(t *testing.T) {
	b := New()
	require.NoError(t, b.Register("/widgets", handlerSetWith(GET, okHandler("list"))))
	router := b.Finalize()

	req := NewRequest(t.Context(), HEAD, "/widgets")
	resp := router.DispatchRequest(req.Context(), req)

	require.Equal(t, 200, resp.Status)
	assert.Empty(t, resp.Bytes)
}

func TestOptionsSynthesizedForRegisteredMethods(t *testing.T) {
	b := New()
	require.NoError(t, b.Register("/widgets", handlerSetWith(GET, okHandler("list"))))
	require.NoError(t, b.Register("/widgets", handlerSetWith(POST, okHandler("create"))))
	router := b.Finalize()

	req := NewRequest(t.Context(), OPTIONS, "/widgets")
	req.Headers.Insert("Access-Control-Request-Method", "POST")
	resp := router.DispatchRequest(req.Context(), req)

	require.Equal(t, 501, resp.Status)
	allow, ok := resp.Headers.Get("Access-Control-Allow-Methods")
	require.True(t, ok)
	assert.Contains(t, allow, "GET")
	assert.Contains(t, allow, "HEAD")
	assert.Contains(t, allow, "POST")
	assert.Contains(t, allow, "OPTIONS")
}

func TestOptionsRejectsUnregisteredMethod(t *testing.T) {
	b := New()
	require.NoError(t, b.Register("/widgets", handlerSetWith(GET, okHandler("list"))))
	router := b.Finalize()

	req := NewRequest(t.Context(), OPTIONS, "/widgets")
	req.Headers.Insert("Access-Control-Request-Method", "DELETE")
	resp := router.DispatchRequest(req.Context(), req)
	assert.Equal(t, 400, resp.Status)
}

func TestDuplicateRegistrationFails(t *testing.T) {
	b := New()
	require.NoError(t, b.Register("/widgets", handlerSetWith(GET, okHandler("a"))))
	err := b.Register("/widgets", handlerSetWith(GET, okHandler("b")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRoute)
}

func TestBuildURLSubstitutesParams(t *testing.T) {
	b := New()
	require.NoError(t, b.Register("/widgets/:id", handlerSetWith(GET, okHandler("x"))))
	require.NoError(t, b.Name("widget", "/widgets/:id"))
	router := b.Finalize()

	url, err := router.BuildURL("widget", "42")
	require.NoError(t, err)
	assert.Equal(t, "/widgets/42", url)

	_, err = router.BuildURL("nonexistent")
	assert.Error(t, err)
}

func TestGroupPrefixAndNestedUse(t *testing.T) {
	b := New()
	var order []string
	track := func(name string) Fang {
		return FangFunc(func(inner HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *Request) *Response {
				order = append(order, name)
				return inner(ctx, req)
			}
		})
	}

	api := b.Group("/api")
	api.Use(track("outer"))
	v1 := api.Group("/v1")
	v1.Use(track("inner"))
	require.NoError(t, v1.GET("/widgets", &Handler{Func: okHandler("ok")}))

	router := b.Finalize()
	req := NewRequest(t.Context(), GET, "/api/v1/widgets")
	resp := router.DispatchRequest(req.Context(), req)

	require.Equal(t, 200, resp.Status)
	// Fangs attached at outer groups run their pre-work before fangs
	// attached at inner groups: api's "outer" fires before v1's "inner".
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestGroupFangOrderIsCompressionInvariant(t *testing.T) {
	b := New()
	var order []string
	track := func(name string) Fang {
		return FangFunc(func(inner HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *Request) *Response {
				order = append(order, name)
				return inner(ctx, req)
			}
		})
	}

	api := b.Group("/api")
	api.Use(track("outer"))
	v1 := api.Group("/v1")
	v1.Use(track("inner"))
	require.NoError(t, v1.GET("/widgets", &Handler{Func: okHandler("ok")}))
	// A sibling route gives the "v1" node two children, so single-child
	// static-chain compression folds "/api/v1" into one node and stops
	// there — unlike TestGroupPrefixAndNestedUse, where it folds the whole
	// "/api/v1/widgets" literal into one node. The fang order must come
	// out identical either way.
	require.NoError(t, v1.GET("/gadgets", &Handler{Func: okHandler("ok")}))

	router := b.Finalize()
	req := NewRequest(t.Context(), GET, "/api/v1/widgets")
	resp := router.DispatchRequest(req.Context(), req)

	require.Equal(t, 200, resp.Status)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestMergeAttachesSubBuilderAtPrefix(t *testing.T) {
	sub := New()
	require.NoError(t, sub.Register("/ping", handlerSetWith(GET, okHandler("pong"))))

	b := New()
	require.NoError(t, b.Merge("/sub", sub))
	router := b.Finalize()

	req := NewRequest(t.Context(), GET, "/sub/ping")
	resp := router.DispatchRequest(req.Context(), req)
	require.Equal(t, 200, resp.Status)
	assert.Equal(t, "pong", string(resp.Bytes))
}

func TestMergeRejectsSubRootHandler(t *testing.T) {
	sub := New()
	require.NoError(t, sub.Register("/", handlerSetWith(GET, okHandler("root"))))

	b := New()
	err := b.Merge("/sub", sub)
	assert.ErrorIs(t, err, ErrMergeRootHasHandler)
}

func TestFinalizePanicsOnPathParamMismatch(t *testing.T) {
	b := New()
	hs := NewHandlerSet()
	hs.Set(GET, &Handler{Func: okHandler("x"), PathParams: 2})
	require.NoError(t, b.Register("/widgets/:id", hs))

	assert.PanicsWithError(t,
		"fango: handler's declared path-param count does not match route: route declares 1 param segments, handler expects 2",
		func() { b.Finalize() },
	)
}
