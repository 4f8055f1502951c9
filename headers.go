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
	"net/url"
	"strings"
)

// crlf terminates every header line and the header block itself.
const crlf = "\r\n"

// wellKnown holds the name and byte-accounting helpers shared by the
// request and response header slots. It is not exported; RequestHeaders
// and ResponseHeaders each own a private copy of the table shaped for
// their side of the wire, following the split between
// layer0_lib/headers/client.rs and .../server.rs in the framework this
// core is modeled on.
type wellKnown struct {
	names []string // canonical wire form, indexed by enum ordinal
}

func (w *wellKnown) indexOf(name string) int {
	for i, n := range w.names {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// headerBase is the incrementally wire-size-tracked storage shared by
// RequestHeaders and ResponseHeaders: a fixed well-known slot array plus
// an overflow map for custom names. Each of the two groups keeps its
// own insertion order.
type headerBase struct {
	table   *wellKnown
	slots   []string // len(table.names); "" means absent
	present []bool
	order   []int // well-known ordinals in insertion order

	customNames  []string // insertion order
	customValues map[string]string

	size int // running byte length of write_to's output, including trailing CRLF
}

func newHeaderBase(table *wellKnown) headerBase {
	return headerBase{
		table:   table,
		slots:   make([]string, len(table.names)),
		present: make([]bool, len(table.names)),
		size:    2, // the terminal "\r\n" of the header block
	}
}

func lineSize(name, value string) int {
	return len(name) + len(": ") + len(value) + len(crlf)
}

// insert replaces any prior value for name, well-known or custom.
func (h *headerBase) insert(name, value string) {
	if idx := h.table.indexOf(name); idx >= 0 {
		if h.present[idx] {
			h.size -= len(h.slots[idx])
			h.size += len(value)
		} else {
			h.present[idx] = true
			h.order = append(h.order, idx)
			h.size += lineSize(h.table.names[idx], value)
		}
		h.slots[idx] = value
		return
	}
	h.insertCustom(name, value)
}

func (h *headerBase) insertCustom(name, value string) {
	if h.customValues == nil {
		h.customValues = make(map[string]string, 4)
	}
	if old, ok := h.customValues[name]; ok {
		h.size -= len(old)
		h.size += len(value)
	} else {
		h.customNames = append(h.customNames, name)
		h.size += lineSize(name, value)
	}
	h.customValues[name] = value
}

// append concatenates ", "+value to any prior value, else behaves as insert.
func (h *headerBase) append(name, value string) {
	if idx := h.table.indexOf(name); idx >= 0 {
		if h.present[idx] {
			h.slots[idx] = h.slots[idx] + ", " + value
			h.size += len(", ") + len(value)
		} else {
			h.present[idx] = true
			h.order = append(h.order, idx)
			h.slots[idx] = value
			h.size += lineSize(h.table.names[idx], value)
		}
		return
	}
	if h.customValues == nil {
		h.customValues = make(map[string]string, 4)
	}
	if old, ok := h.customValues[name]; ok {
		h.customValues[name] = old + ", " + value
		h.size += len(", ") + len(value)
	} else {
		h.customNames = append(h.customNames, name)
		h.customValues[name] = value
		h.size += lineSize(name, value)
	}
}

// remove clears the slot for name, well-known or custom.
func (h *headerBase) remove(name string) {
	if idx := h.table.indexOf(name); idx >= 0 {
		if h.present[idx] {
			h.size -= lineSize(h.table.names[idx], h.slots[idx])
			h.present[idx] = false
			h.slots[idx] = ""
			h.removeOrder(idx)
		}
		return
	}
	if h.customValues == nil {
		return
	}
	if old, ok := h.customValues[name]; ok {
		h.size -= lineSize(name, old)
		delete(h.customValues, name)
		for i, n := range h.customNames {
			if n == name {
				h.customNames = append(h.customNames[:i], h.customNames[i+1:]...)
				break
			}
		}
	}
}

func (h *headerBase) removeOrder(idx int) {
	for i, o := range h.order {
		if o == idx {
			h.order = append(h.order[:i], h.order[i+1:]...)
			return
		}
	}
}

// get returns the current value for name, if any.
func (h *headerBase) get(name string) (string, bool) {
	if idx := h.table.indexOf(name); idx >= 0 {
		if h.present[idx] {
			return h.slots[idx], true
		}
		return "", false
	}
	if h.customValues == nil {
		return "", false
	}
	v, ok := h.customValues[name]
	return v, ok
}

// HeaderPair is one (name, value) produced by Iter.
type HeaderPair struct {
	Name  string
	Value string
}

// iter yields (name, value) pairs: first the well-known names in the
// order they were first inserted, then the custom names in the order
// they were first inserted. A custom name inserted before a well-known
// one is still yielded after it.
func (h *headerBase) iter(yield func(HeaderPair)) {
	for _, idx := range h.order {
		yield(HeaderPair{Name: h.table.names[idx], Value: h.slots[idx]})
	}
	for _, name := range h.customNames {
		yield(HeaderPair{Name: name, Value: h.customValues[name]})
	}
}

// Size reports the running byte length write_to would emit.
func (h *headerBase) Size() int { return h.size }

func (h *headerBase) writeLinesTo(buf *strings.Builder) {
	for idx, name := range h.table.names {
		if !h.present[idx] {
			continue
		}
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(h.slots[idx])
		buf.WriteString(crlf)
	}
	for _, name := range h.customNames {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(h.customValues[name])
		buf.WriteString(crlf)
	}
}

// ---- Request headers ----------------------------------------------------

var requestWellKnown = &wellKnown{names: []string{
	"Accept", "Accept-Encoding", "Accept-Language",
	"Access-Control-Request-Headers", "Access-Control-Request-Method",
	"Authorization", "Cache-Control", "Connection", "Content-Disposition",
	"Content-Encoding", "Content-Language", "Content-Length", "Content-Location",
	"Content-Type", "Cookie", "Date", "Expect", "Forwarded", "From", "Host",
	"If-Match", "If-Modified-Since", "If-None-Match", "If-Range",
	"If-Unmodified-Since", "Link", "Max-Forwards", "Origin",
	"Proxy-Authorization", "Range", "Referer", "Sec-WebSocket-Extensions",
	"Sec-WebSocket-Key", "Sec-WebSocket-Protocol", "Sec-WebSocket-Version",
	"TE", "Trailer", "Transfer-Encoding", "User-Agent", "Upgrade",
	"Upgrade-Insecure-Requests", "Via",
}}

// RequestHeaders is the tuned header map carried by Request. Well-known
// names (len(requestWellKnown.names) ~= 42) are stored in a fixed array
// indexed by ordinal; anything else falls into an overflow map. Iteration
// (for whichever collaborator needs to walk the headers, e.g. a logging
// fang) yields the well-known names in insertion order, then the custom
// names in insertion order.
type RequestHeaders struct {
	base headerBase
}

// NewRequestHeaders returns an empty request-headers value. The HTTP/1.1
// parser (an external collaborator, see spec §6) is expected to call
// Insert for every parsed header line.
func NewRequestHeaders() *RequestHeaders {
	return &RequestHeaders{base: newHeaderBase(requestWellKnown)}
}

func (h *RequestHeaders) Insert(name, value string) { h.base.insert(name, value) }
func (h *RequestHeaders) Append(name, value string) { h.base.append(name, value) }
func (h *RequestHeaders) Remove(name string)         { h.base.remove(name) }
func (h *RequestHeaders) Get(name string) (string, bool) { return h.base.get(name) }
func (h *RequestHeaders) Size() int { return h.base.Size() }
func (h *RequestHeaders) Iter(yield func(HeaderPair)) { h.base.iter(yield) }

// ---- Response headers -----------------------------------------------------

var responseWellKnown = &wellKnown{names: []string{
	"Accept-Ranges", "Access-Control-Allow-Credentials",
	"Access-Control-Allow-Headers", "Access-Control-Allow-Methods",
	"Access-Control-Allow-Origin", "Access-Control-Expose-Headers",
	"Access-Control-Max-Age", "Age", "Allow", "Alt-Svc", "Cache-Control",
	"Cache-Status", "CDN-Cache-Control", "Connection", "Content-Disposition",
	"Content-Encoding", "Content-Language", "Content-Length",
	"Content-Location", "Content-Range", "Content-Security-Policy",
	"Content-Security-Policy-Report-Only", "Content-Type", "Date", "ETag",
	"Expires", "Link", "Location", "Proxy-Authenticate", "Referrer-Policy",
	"Refresh", "Retry-After", "Sec-WebSocket-Accept", "Sec-WebSocket-Protocol",
	"Sec-WebSocket-Version", "Server", "Strict-Transport-Security", "Trailer",
	"Transfer-Encoding", "Upgrade", "Vary", "Via", "X-Content-Type-Options",
	"X-Frame-Options",
}}

// ResponseHeaders is the response-side counterpart of RequestHeaders, with
// the same incremental wire-size tracking plus Set-Cookie support (one
// record per call; a response may carry many).
type ResponseHeaders struct {
	base      headerBase
	setCookie []string // pre-serialized "name=value; Dir=...; ..." records
}

func NewResponseHeaders() *ResponseHeaders {
	return &ResponseHeaders{base: newHeaderBase(responseWellKnown)}
}

func (h *ResponseHeaders) Insert(name, value string) { h.base.insert(name, value) }
func (h *ResponseHeaders) Append(name, value string) { h.base.append(name, value) }
func (h *ResponseHeaders) Remove(name string)         { h.base.remove(name) }
func (h *ResponseHeaders) Get(name string) (string, bool) { return h.base.get(name) }
func (h *ResponseHeaders) Size() int { return h.base.Size() }
func (h *ResponseHeaders) Iter(yield func(HeaderPair)) { h.base.iter(yield) }

// CookieDirectives configures a Set-Cookie record built by SetCookie.
type CookieDirectives struct {
	Path     string
	Domain   string
	MaxAge   int // 0 means "not set"
	Secure   bool
	HTTPOnly bool
	SameSite string // "Lax", "Strict", "None"; empty means "not set"
}

// SetCookie appends a new Set-Cookie record. Unlike Insert/Append, each
// call adds an independent record; the response may carry many. The
// cookie value is percent-encoded on serialization.
func (h *ResponseHeaders) SetCookie(name, value string, directives func(*CookieDirectives)) {
	d := CookieDirectives{Path: "/"}
	if directives != nil {
		directives(&d)
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
	if d.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(d.Path)
	}
	if d.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(d.Domain)
	}
	if d.MaxAge != 0 {
		b.WriteString("; Max-Age=")
		b.WriteString(itoa(d.MaxAge))
	}
	if d.Secure {
		b.WriteString("; Secure")
	}
	if d.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	if d.SameSite != "" {
		b.WriteString("; SameSite=")
		b.WriteString(d.SameSite)
	}

	record := b.String()
	h.setCookie = append(h.setCookie, record)
	h.base.size += len("Set-Cookie: ") + len(record) + len(crlf)
}

// WriteTo reserves the tracked byte count in buf, then emits the
// well-known slots in their stable enum-ordinal order, the custom
// entries in insertion order, each Set-Cookie record on its own line,
// and the terminating CRLF.
func (h *ResponseHeaders) WriteTo(buf *strings.Builder) {
	buf.Grow(h.base.size)
	h.base.writeLinesTo(buf)
	for _, sc := range h.setCookie {
		buf.WriteString("Set-Cookie: ")
		buf.WriteString(sc)
		buf.WriteString(crlf)
	}
	buf.WriteString(crlf)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
