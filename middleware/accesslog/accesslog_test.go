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

package accesslog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fango-http/fango"
)

// recordingHandler is a minimal slog.Handler that captures every record
// it receives, so tests can assert on level and fields without parsing
// text/JSON output.
type recordingHandler struct {
	records *[]slog.Record
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}
func (h recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(name string) slog.Handler       { return h }

func newRecordingLogger() (*slog.Logger, *[]slog.Record) {
	records := &[]slog.Record{}
	return slog.New(recordingHandler{records: records}), records
}

func respondingStatus(status int) fango.HandlerFunc {
	return func(ctx context.Context, req *fango.Request) *fango.Response {
		return fango.NewResponse(status)
	}
}

func TestNoLoggerIsNoop(t *testing.T) {
	fang := New()
	wrapped := fang.Build(respondingStatus(200))
	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	resp := wrapped(req.Context(), req)
	assert.Equal(t, 200, resp.Status)
}

func TestLogsOneRecordPerRequest(t *testing.T) {
	logger, records := newRecordingLogger()
	fang := New(WithLogger(logger))
	wrapped := fang.Build(respondingStatus(200))

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	wrapped(req.Context(), req)

	require.Len(t, *records, 1)
	assert.Equal(t, slog.LevelInfo, (*records)[0].Level)
}

func TestErrorStatusLogsAtErrorLevel(t *testing.T) {
	logger, records := newRecordingLogger()
	fang := New(WithLogger(logger))
	wrapped := fang.Build(respondingStatus(500))

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	wrapped(req.Context(), req)

	require.Len(t, *records, 1)
	assert.Equal(t, slog.LevelError, (*records)[0].Level)
}

func TestClientErrorStatusLogsAtWarnLevel(t *testing.T) {
	logger, records := newRecordingLogger()
	fang := New(WithLogger(logger))
	wrapped := fang.Build(respondingStatus(404))

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	wrapped(req.Context(), req)

	require.Len(t, *records, 1)
	assert.Equal(t, slog.LevelWarn, (*records)[0].Level)
}

func TestExcludePathsSkipsLogging(t *testing.T) {
	logger, records := newRecordingLogger()
	fang := New(WithLogger(logger), WithExcludePaths("/healthz"))
	wrapped := fang.Build(respondingStatus(200))

	req := fango.NewRequest(t.Context(), fango.GET, "/healthz")
	wrapped(req.Context(), req)

	assert.Empty(t, *records)
}

func TestExcludePrefixSkipsLogging(t *testing.T) {
	logger, records := newRecordingLogger()
	fang := New(WithLogger(logger), WithExcludePrefix("/internal/"))
	wrapped := fang.Build(respondingStatus(200))

	req := fango.NewRequest(t.Context(), fango.GET, "/internal/metrics")
	wrapped(req.Context(), req)

	assert.Empty(t, *records)
}

func TestErrorsOnlySkipsSuccessfulRequests(t *testing.T) {
	logger, records := newRecordingLogger()
	fang := New(WithLogger(logger), WithErrorsOnly())
	wrapped := fang.Build(respondingStatus(200))

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	wrapped(req.Context(), req)
	assert.Empty(t, *records)

	wrappedErr := fang.Build(respondingStatus(503))
	wrappedErr(req.Context(), req)
	assert.Len(t, *records, 1)
}

func TestSlowThresholdBypassesErrorsOnly(t *testing.T) {
	logger, records := newRecordingLogger()
	fang := New(WithLogger(logger), WithErrorsOnly(), WithSlowThreshold(5*time.Millisecond))
	inner := func(ctx context.Context, req *fango.Request) *fango.Response {
		time.Sleep(10 * time.Millisecond)
		return fango.NewResponse(200)
	}
	wrapped := fang.Build(inner)

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	wrapped(req.Context(), req)

	require.Len(t, *records, 1)
	var sawSlow bool
	(*records)[0].Attrs(func(a slog.Attr) bool {
		if a.Key == "slow" {
			sawSlow = true
		}
		return true
	})
	assert.True(t, sawSlow)
}

func TestSampleByHashAlwaysSamplesEmptyRequestID(t *testing.T) {
	// sampleByHash treats an empty request ID as always-sampled, since
	// there is nothing stable to hash; this is the documented fallback.
	assert.True(t, sampleByHash("", 0))
}

func TestSampleByHashIsDeterministic(t *testing.T) {
	a := sampleByHash("fixed-request-id", 0.5)
	b := sampleByHash("fixed-request-id", 0.5)
	assert.Equal(t, a, b)
}

func TestSampleByHashRateOneAlwaysSamples(t *testing.T) {
	for _, id := range []string{"a", "b", "c", "some-long-request-id-value"} {
		assert.True(t, sampleByHash(id, 1.0))
	}
}

func TestSampleRateAppliesViaFang(t *testing.T) {
	logger, records := newRecordingLogger()
	fang := New(WithLogger(logger), WithSampleRate(1.0))
	wrapped := fang.Build(respondingStatus(200))

	req := fango.NewRequest(t.Context(), fango.GET, "/widgets")
	wrapped(req.Context(), req)

	assert.Len(t, *records, 1)
}
