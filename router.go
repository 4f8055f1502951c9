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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Router is the immutable, finalized final-trie from §3/§4.2. It is
// produced once by Builder.Finalize and safely shared (read-only)
// across concurrent dispatches (§5); it holds no per-request mutable
// state.
type Router struct {
	roots map[Method]*finalNode

	names  map[string][]Segment
	logger *slog.Logger

	enableH2C      bool
	serverTimeouts serverTimeouts

	mu     sync.Mutex
	server *http.Server
}

// Finalize consumes b (applying any pending Group.Use calls first) and
// produces an immutable Router.
func (b *Builder) Finalize(opts ...Option) *Router {
	b.applyPending()

	r := &Router{
		roots:          make(map[Method]*finalNode, len(allTrees)),
		names:          b.names,
		logger:         NoopLogger(),
		serverTimeouts: defaultServerTimeouts(),
	}
	for _, m := range allTrees {
		r.roots[m] = finalize(b.trees[m])
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BuildURL substitutes params into the route registered under name.
func (r *Router) BuildURL(name string, params ...string) (string, error) {
	segs, ok := r.names[name]
	if !ok {
		return "", fmt.Errorf("fango: no route named %q", name)
	}
	var buf strings.Builder
	pi := 0
	for _, seg := range segs {
		buf.WriteByte('/')
		if seg.Kind == SegmentStatic {
			buf.WriteString(seg.Value)
			continue
		}
		if pi >= len(params) {
			return "", fmt.Errorf("fango: BuildURL(%q): not enough params", name)
		}
		buf.WriteString(params[pi])
		pi++
	}
	if buf.Len() == 0 {
		return "/", nil
	}
	return buf.String(), nil
}

func hasPrefixStr(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return s[:len(prefix)] == prefix
}

// tryConsume attempts to consume remaining through c's full compressed
// pattern chain, returning the captured param value (if the chain's
// first pattern is a param) and the byte count consumed.
func tryConsume(c *finalNode, remaining string) (ok bool, capture string, consumed int) {
	pos := 0
	for i, pat := range c.patterns {
		switch pat.Kind {
		case SegmentStatic:
			rest := remaining[pos:]
			if len(rest) == 0 || rest[0] != '/' {
				return false, "", 0
			}
			if !hasPrefixStr(rest[1:], pat.Value) {
				return false, "", 0
			}
			pos += 1 + len(pat.Value)
		case SegmentParam:
			if i != 0 {
				// compression never produces a param mid-chain; param
				// patterns are always exactly one element.
				return false, "", 0
			}
			rest := remaining[pos:]
			if len(rest) == 0 || rest[0] != '/' {
				return false, "", 0
			}
			seg := rest[1:]
			if end := indexByte(seg, '/'); end >= 0 {
				seg = seg[:end]
			}
			if seg == "" {
				return false, "", 0
			}
			capture = seg
			pos += 1 + len(seg)
		}
	}
	return true, capture, pos
}

// DispatchRequest is the per-request entry point from §4.3: it walks
// the trie, captures path params into req.Path as it goes, and invokes
// the resolved callable. This is what ServeHTTP uses.
func (r *Router) DispatchRequest(ctx context.Context, req *Request) *Response {
	ctx = r.withRouterLogger(ctx)
	treeMethod := req.Method
	if treeMethod == HEAD {
		treeMethod = GET
	}
	root, ok := r.roots[treeMethod]
	if !ok {
		return NotFound()
	}
	path := req.Path.Raw()
	// Compression may fold a single static chain into the root itself,
	// so the root's own patterns are probed before its children.
	var h HandlerFunc
	switch ok, _, n := tryConsume(root, path); {
	case !ok:
		h = root.catch
	case len(root.patterns) > 0 && n == len(path):
		h = root.proc
	default:
		h = walkCapturing(root, path[n:], req.Path)
	}
	resp := h(ctx, req)
	if req.Method == HEAD {
		resp.StripBodyForHEAD()
	}
	return resp
}

func walkCapturing(node *finalNode, remaining string, pb *PathBuffer) HandlerFunc {
	for _, c := range node.children {
		ok, capture, n := tryConsume(c, remaining)
		if !ok {
			continue
		}
		if capture != "" {
			pb.captureParam(capture)
		}
		rest := remaining[n:]
		if rest == "" {
			return c.proc
		}
		return walkCapturing(c, rest, pb)
	}
	if remaining == "" {
		return node.proc
	}
	return node.catch
}

// ServeHTTP adapts the finalized Router to net/http, the external
// collaborator named in §6 for the byte-level parser and wire output.
func (r *Router) ServeHTTP(w http.ResponseWriter, httpReq *http.Request) {
	req := NewRequest(httpReq.Context(), Method(httpReq.Method), httpReq.URL.RequestURI())
	for name, values := range httpReq.Header {
		for _, v := range values {
			req.Headers.Append(name, v)
		}
	}
	if httpReq.Body != nil {
		body, _ := io.ReadAll(httpReq.Body)
		req.Body = body
	}

	resp := r.DispatchRequest(httpReq.Context(), req)
	writeHTTPResponse(w, resp)
}

func writeHTTPResponse(w http.ResponseWriter, resp *Response) {
	hdr := w.Header()
	resp.Headers.Iter(func(p HeaderPair) {
		hdr.Add(p.Name, p.Value)
	})
	w.WriteHeader(resp.Status)

	switch resp.Kind {
	case BodyBytes:
		_, _ = w.Write(resp.Bytes)
	case BodyStream:
		if resp.Stream != nil {
			_ = resp.Stream(w)
		}
	}
}

// Serve starts an HTTP server on addr, enabling h2c if WithH2C was
// passed to Finalize. It blocks until the server exits; use Shutdown
// from another goroutine for graceful shutdown.
func (r *Router) Serve(addr string) error {
	var h http.Handler = r
	if r.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: r.serverTimeouts.readHeader,
		ReadTimeout:       r.serverTimeouts.read,
		WriteTimeout:      r.serverTimeouts.write,
		IdleTimeout:       r.serverTimeouts.idle,
	}

	r.mu.Lock()
	r.server = srv
	r.mu.Unlock()

	return srv.ListenAndServe()
}

// Shutdown gracefully stops a server started with Serve.
func (r *Router) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	srv := r.server
	r.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

func defaultServerTimeouts() serverTimeouts {
	return serverTimeouts{
		readHeader: 5 * time.Second,
		read:       30 * time.Second,
		write:      30 * time.Second,
		idle:       120 * time.Second,
	}
}
