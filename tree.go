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
	"sort"
)

// finalNode is the immutable final-trie node from §3: a sequence of
// patterns (the result of compressing single-child static chains),
// children sorted for deterministic longest-static-first matching, and
// the two composed callables for a hit (proc) and a miss (catch)
// terminating at this node.
type finalNode struct {
	patterns []Segment
	children []*finalNode
	proc     HandlerFunc
	catch    HandlerFunc
}

// finalize consumes root (and everything reachable from it), producing
// an immutable finalNode tree per §4.2's "Finalize (compression)" steps.
// A node's catch reflects only its own subtree's fangs, computed fresh
// at every node in step 3.
func finalize(node *buildNode) *finalNode {
	return finalizeDepth(node, 0)
}

// finalizeDepth carries paramDepth, the number of param segments walked
// from the tree's root to node, so a handler built through the typed
// extraction protocol (H1..H6) can be checked against the route it was
// registered on: §4.4 requires this mismatch be caught at finalize, not
// at request time. Handlers not built through the protocol declare
// PathParams == 0 and are exempt — they simply don't use req.Param.
func finalizeDepth(node *buildNode, paramDepth int) *finalNode {
	sortChildren(node.children)

	// Step 2: collapse single-child static chains.
	patterns := []Segment{}
	if node.pattern != nil {
		patterns = append(patterns, *node.pattern)
	}
	for len(node.children) == 1 &&
		node.handler == nil &&
		node.children[0].pattern != nil &&
		node.children[0].pattern.Kind == SegmentStatic {

		only := node.children[0]
		patterns = append(patterns, *only.pattern)
		// only's fangs already include every entry node's own fangs could
		// hold: any Use call whose subtree reaches node also reaches only
		// (applyFangsSubtree always recurses into children), so only's
		// list is node's superset in the same relative order. Adopting it
		// wholesale — rather than extend()'s append-new-to-tail — keeps
		// the deepest-first ordering applyPending established instead of
		// flattening it to "whatever node already had, first".
		node.fangs = only.fangs
		node.handler = only.handler
		node.children = only.children
		sortChildren(node.children)
	}

	totalDepth := paramDepth + countParamSegments(patterns)

	fn := &finalNode{patterns: patterns}

	fn.children = make([]*finalNode, len(node.children))
	for i, c := range node.children {
		fn.children[i] = finalizeDepth(c, totalDepth)
	}

	terminal := node.handler
	var h HandlerFunc
	if terminal != nil {
		if terminal.PathParams > 0 && terminal.PathParams != totalDepth {
			panic(fmt.Errorf("%w: route declares %d param segments, handler expects %d",
				ErrPathParamCountMismatch, totalDepth, terminal.PathParams))
		}
		h = terminal.Func
	} else {
		h = func(_ context.Context, _ *Request) *Response { return NotFound() }
	}
	fn.proc = node.fangs.compose(h)
	fn.catch = node.fangs.compose(func(_ context.Context, _ *Request) *Response { return NotFound() })

	return fn
}

func countParamSegments(segs []Segment) int {
	n := 0
	for _, s := range segs {
		if s.Kind == SegmentParam {
			n++
		}
	}
	return n
}

// sortChildren orders static children by descending byte value, then
// places the param child (if any) last, per §4.2 step 1.
func sortChildren(children []*buildNode) {
	sort.SliceStable(children, func(i, j int) bool {
		pi, pj := children[i].pattern, children[j].pattern
		if pi.Kind != pj.Kind {
			return pi.Kind == SegmentStatic // static before param
		}
		if pi.Kind == SegmentParam {
			return false // only one param child can exist; order irrelevant
		}
		return pi.Value > pj.Value // descending bytes
	})
}
