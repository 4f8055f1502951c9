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

import "sync/atomic"

// Fang is the middleware contract from §4.5: given an inner callable, it
// builds an outer callable of the same shape. MapDocs is the optional
// documentation hook (see DocMapper); fangs that don't touch docs simply
// don't implement it.
type Fang interface {
	Build(inner HandlerFunc) HandlerFunc
}

// DocMapper is implemented by a Fang that wants to transform a route's
// Doc as it passes through (e.g. to add a "requires auth" note). Fangs
// that don't need this simply don't implement it; MapDocs defaults to
// identity (see applyMapDocs).
type DocMapper interface {
	MapDocs(doc *Doc) *Doc
}

// FangFunc adapts a plain build function to the Fang interface, the way
// http.HandlerFunc adapts a plain function to http.Handler.
type FangFunc func(inner HandlerFunc) HandlerFunc

func (f FangFunc) Build(inner HandlerFunc) HandlerFunc { return f(inner) }

func applyMapDocs(f Fang, doc *Doc) *Doc {
	if m, ok := f.(DocMapper); ok {
		return m.MapDocs(doc)
	}
	return doc
}

// routerID is the process-unique, monotonically increasing identifier
// assigned to every new Builder/Group, used only to dedup fangs on
// merge (§3, §9 "Router-id dedup").
type routerID uint64

var routerIDSeq atomic.Uint64

func nextRouterID() routerID {
	return routerID(routerIDSeq.Add(1))
}

// fangEntry is one registration under a router id. A single Use() call
// may attach several fangs together (idiomatic variadic ergonomics);
// they share one id and are deduped as a unit, since they were all
// declared by the same group at the same point in the tree.
type fangEntry struct {
	id    routerID
	fangs []Fang
}

// FangsList is the ordered, router-id-deduped collection from §3's "Fang
// list" entity. Iteration order is "most-inner first": index 0 is the
// fang list encountered deepest in the tree walk during construction.
type FangsList struct {
	entries []fangEntry
}

// add appends fangs under id, ignoring the call entirely if id was
// already present (idempotent attach, §3).
func (fl *FangsList) add(id routerID, fangs ...Fang) {
	if len(fangs) == 0 {
		return
	}
	for _, e := range fl.entries {
		if e.id == id {
			return
		}
	}
	fl.entries = append(fl.entries, fangEntry{id: id, fangs: fangs})
}

// extend appends every entry of other that is not already present by
// id, preserving other's relative order at the tail of fl. Used when
// merging a sub-builder's accumulated fangs into a parent node during
// Merge (§4.2).
func (fl *FangsList) extend(other *FangsList) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		fl.add(e.id, e.fangs...)
	}
}

// clone returns an independent copy sharing no backing array with fl,
// so appending to the clone never mutates fl.
func (fl *FangsList) clone() *FangsList {
	if fl == nil {
		return &FangsList{}
	}
	out := &FangsList{entries: make([]fangEntry, len(fl.entries))}
	copy(out.entries, fl.entries)
	return out
}

// flatten returns the individual fangs in most-inner-first order,
// expanding each entry's fangs in their declared (Use-call) order.
func (fl *FangsList) flatten() []Fang {
	if fl == nil {
		return nil
	}
	out := make([]Fang, 0, len(fl.entries))
	for _, e := range fl.entries {
		out = append(out, e.fangs...)
	}
	return out
}

// compose builds the single effective callable for terminal, following
// the Composition rule in §4.2: given fangs ordered most-inner first
// [f_n, ..., f_1], the result is f_1(f_2(...f_n(terminal)...)) — start
// with f_n.Build(terminal), then repeatedly wrap with f_{k-1} until f_1
// is applied last. fl is already in most-inner-first order (index 0 is
// f_n), so folding forward from index 0 to the end builds f_n first and
// f_1 last, producing exactly that nesting.
func (fl *FangsList) compose(terminal HandlerFunc) HandlerFunc {
	fangs := fl.flatten()
	current := terminal
	for i := 0; i < len(fangs); i++ {
		current = fangs[i].Build(current)
	}
	return current
}

// composeDocs threads doc through the same fangs in the same order as
// compose: innermost (index 0) first, outermost last, so a fang's
// MapDocs sees the same nesting its Build wrapping implies.
func (fl *FangsList) composeDocs(doc *Doc) *Doc {
	fangs := fl.flatten()
	for i := 0; i < len(fangs); i++ {
		doc = applyMapDocs(fangs[i], doc)
	}
	return doc
}
