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

// Package compression encodes eligible response bodies with gzip or
// zstd, negotiated against the request's Accept-Encoding.
//
// Because the core hands fangs a fully-built *Response (§3's Response
// entity holds a byte slice, not a streaming writer), there is no
// chunked-write threshold to buffer against: this fang compresses the
// already-complete body in one pass once it decides to.
package compression

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/fango-http/fango"
)

// Option configures the compression fang.
type Option func(*config)

type config struct {
	logger              *slog.Logger
	gzipLevel           int
	minSize             int
	enableGzip          bool
	enableZstd          bool
	excludePaths        map[string]bool
	excludeExtensions   []string
	excludeContentTypes []string
}

func defaultConfig() *config {
	return &config{
		gzipLevel:           gzip.DefaultCompression,
		minSize:             256,
		enableGzip:          true,
		enableZstd:          true,
		excludePaths:        make(map[string]bool),
		excludeExtensions:   nil,
		excludeContentTypes: nil,
	}
}

// WithGzipLevel sets the gzip compression level (gzip.BestSpeed..gzip.BestCompression).
func WithGzipLevel(level int) Option { return func(c *config) { c.gzipLevel = level } }

// WithZstdDisabled disables zstd negotiation, leaving gzip as the only codec.
func WithZstdDisabled() Option { return func(c *config) { c.enableZstd = false } }

// WithGzipDisabled disables gzip negotiation, leaving zstd as the only codec.
func WithGzipDisabled() Option { return func(c *config) { c.enableGzip = false } }

// WithMinSize sets the minimum body size (bytes) worth compressing.
func WithMinSize(n int) Option { return func(c *config) { c.minSize = n } }

// WithExcludePaths exempts exact paths from compression.
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// WithExcludeExtensions skips paths ending in any of the given suffixes
// (e.g. ".png", ".zip" — already-compressed formats).
func WithExcludeExtensions(exts ...string) Option {
	return func(c *config) { c.excludeExtensions = append(c.excludeExtensions, exts...) }
}

// WithExcludeContentTypes skips responses whose Content-Type contains
// any of the given substrings.
func WithExcludeContentTypes(types ...string) Option {
	return func(c *config) { c.excludeContentTypes = append(c.excludeContentTypes, types...) }
}

// WithLogger sets the logger used for compression failures.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

var gzipWriterPools sync.Map // level -> *sync.Pool

func getGzipPool(level int) *sync.Pool {
	if p, ok := gzipWriterPools.Load(level); ok {
		return p.(*sync.Pool)
	}
	pool := &sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, level)
		return w
	}}
	actual, _ := gzipWriterPools.LoadOrStore(level, pool)
	return actual.(*sync.Pool)
}

var zstdEncoderOnce sync.Once
var zstdEncoder *zstd.Encoder

func getZstdEncoder() *zstd.Encoder {
	zstdEncoderOnce.Do(func() {
		zstdEncoder, _ = zstd.NewWriter(io.Discard)
	})
	return zstdEncoder
}

func shouldSkipStatus(code int) bool {
	return code == 204 || code == 304 || code == 206
}

func shouldSkipContentType(ct string, excludes []string) bool {
	if ct == "" {
		return false
	}
	ctLower := strings.ToLower(ct)
	if strings.Contains(ctLower, "text/event-stream") ||
		strings.Contains(ctLower, "application/grpc") ||
		strings.Contains(ctLower, "application/octet-stream") {
		return true
	}
	for _, excluded := range excludes {
		if strings.Contains(ctLower, strings.ToLower(excluded)) {
			return true
		}
	}
	return false
}

// chooseEncoding selects the best encoding for acceptEncoding, preferring
// zstd over gzip when both are acceptable at equal or better quality.
func chooseEncoding(acceptEncoding string, cfg *config) string {
	if acceptEncoding == "" {
		return ""
	}
	ae := strings.ToLower(acceptEncoding)
	zstdQ := parseQValue(ae, "zstd")
	gzipQ := parseQValue(ae, "gzip")
	if zstdQ == 0 && gzipQ == 0 {
		return ""
	}
	if cfg.enableZstd && zstdQ > 0 && zstdQ >= gzipQ {
		return "zstd"
	}
	if cfg.enableGzip && gzipQ > 0 {
		return "gzip"
	}
	return ""
}

func parseQValue(accept, encoding string) float64 {
	idx := strings.Index(accept, encoding)
	if idx < 0 {
		return -1
	}
	qIdx := strings.Index(accept[idx:], "q=")
	if qIdx < 0 {
		return 1.0
	}
	qStart := idx + qIdx + 2
	end := strings.IndexAny(accept[qStart:], ",;")
	if end < 0 {
		end = len(accept) - qStart
	}
	qStr := strings.TrimSpace(accept[qStart : qStart+end])
	q, err := strconv.ParseFloat(qStr, 64)
	if err != nil {
		return 1.0
	}
	return q
}

// New returns a Fang compressing eligible response bodies with gzip or
// zstd, chosen by Accept-Encoding q-value negotiation.
func New(opts ...Option) fango.Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return fango.FangFunc(func(inner fango.HandlerFunc) fango.HandlerFunc {
		return func(ctx context.Context, req *fango.Request) *fango.Response {
			resp := inner(ctx, req)

			path := req.Path.Raw()
			if cfg.excludePaths[path] {
				return resp
			}
			for _, ext := range cfg.excludeExtensions {
				if strings.HasSuffix(path, ext) {
					return resp
				}
			}
			if resp.Kind != fango.BodyBytes || len(resp.Bytes) < cfg.minSize {
				return resp
			}
			if shouldSkipStatus(resp.Status) {
				return resp
			}
			if _, already := resp.Headers.Get("Content-Encoding"); already {
				return resp
			}
			contentType, _ := resp.Headers.Get("Content-Type")
			if shouldSkipContentType(contentType, cfg.excludeContentTypes) {
				return resp
			}

			acceptEncoding, _ := req.Headers.Get("Accept-Encoding")
			encoding := chooseEncoding(acceptEncoding, cfg)
			if encoding == "" {
				return resp
			}

			compressed, err := compress(encoding, resp.Bytes, cfg)
			if err != nil {
				if cfg.logger != nil {
					cfg.logger.Error("compression failed", "error", err, "encoding", encoding)
				}
				return resp
			}

			resp.Bytes = compressed
			resp.Headers.Remove("Content-Length")
			resp.Headers.Insert("Content-Encoding", encoding)
			resp.Headers.Insert("Vary", "Accept-Encoding")
			return resp
		}
	})
}

func compress(encoding string, body []byte, cfg *config) ([]byte, error) {
	switch encoding {
	case "gzip":
		pool := getGzipPool(cfg.gzipLevel)
		w := pool.Get().(*gzip.Writer)
		defer pool.Put(w)
		var buf bytes.Buffer
		w.Reset(&buf)
		if _, err := w.Write(body); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "zstd":
		return getZstdEncoder().EncodeAll(body, nil), nil
	default:
		return body, nil
	}
}
