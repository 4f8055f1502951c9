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
	"strings"
)

// buildNode is the mutable build-trie node from §3: an optional pattern
// (nil only at a tree's root), one handler, an inherited-plus-own fang
// list, and an ordered child list.
type buildNode struct {
	pattern  *Segment
	handler  *Handler
	fangs    FangsList
	children []*buildNode
}

// matchChild finds the child that seg would reuse during registration
// (§4.2 step 2): byte-equal for static, the sole param child (whatever
// its name) for param, ignoring seg.Value in that case.
func (n *buildNode) matchChild(seg Segment) *buildNode {
	for _, c := range n.children {
		if c.pattern == nil {
			continue
		}
		if seg.Kind == SegmentStatic && c.pattern.Kind == SegmentStatic && c.pattern.Value == seg.Value {
			return c
		}
		if seg.Kind == SegmentParam && c.pattern.Kind == SegmentParam {
			return c
		}
	}
	return nil
}

func (n *buildNode) appendChild(seg Segment) *buildNode {
	child := &buildNode{pattern: &Segment{Kind: seg.Kind, Value: seg.Value}}
	n.children = append(n.children, child)
	return child
}

// walkOrCreate descends from root through segs, reusing matching
// children and appending new ones as needed (§4.2 steps 1-3), returning
// the terminal node.
func walkOrCreate(root *buildNode, segs []Segment) *buildNode {
	cur := root
	for _, seg := range segs {
		child := cur.matchChild(seg)
		if child == nil {
			child = cur.appendChild(seg)
		}
		cur = child
	}
	return cur
}

// pendingFangApply records one Group.Use call: the prefix it was
// declared at, the group's router id, and the fangs attached together.
// Applied to the live tree at Finalize (or, for a sub-builder about to
// be merged, at Merge time) rather than eagerly, so fangs reach routes
// registered on the group both before and after the Use call.
type pendingFangApply struct {
	prefix []Segment
	id     routerID
	fangs  []Fang
}

// Builder accumulates routes, merges, and middleware into one build-trie
// per HTTP method (§3, §4.2). It is not safe for concurrent use; build
// the whole tree on one goroutine, then Finalize.
type Builder struct {
	id    routerID
	trees map[Method]*buildNode

	methodSets map[string]*[]Method // route literal -> live method list, read by the synthesized OPTIONS handler
	names      map[string][]Segment // route name -> segments, for reverse routing

	pending        []pendingFangApply
	pendingApplied bool
}

// allTrees lists every method tree a Builder maintains, including the
// synthesized OPTIONS tree.
var allTrees = [...]Method{GET, PUT, POST, PATCH, DELETE, OPTIONS}

// New returns an empty Builder: one root node per HTTP method tree and a
// fresh router id.
func New() *Builder {
	b := &Builder{
		id:         nextRouterID(),
		trees:      make(map[Method]*buildNode, len(allTrees)),
		methodSets: make(map[string]*[]Method),
		names:      make(map[string][]Segment),
	}
	for _, m := range allTrees {
		b.trees[m] = &buildNode{}
	}
	return b
}

// Register attaches every method present in hs to literal, in one call,
// then synthesizes/updates the OPTIONS handler for that literal (§4.2).
// Duplicate registration of the same (method, literal) pair fails.
func (b *Builder) Register(literal string, hs *HandlerSet) error {
	for _, m := range registrable {
		h, ok := hs.Get(m)
		if !ok {
			continue
		}
		if err := b.registerSingle(m, literal, h); err != nil {
			return err
		}
	}
	return nil
}

// registerSingle inserts h at literal in method's tree and keeps the
// literal's live method list (and therefore its OPTIONS handler) current.
func (b *Builder) registerSingle(method Method, literal string, h *Handler) error {
	segs, err := parseRouteLiteral(literal)
	if err != nil {
		return err
	}

	node := walkOrCreate(b.trees[method], segs)
	if node.handler != nil {
		return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, literal)
	}
	node.handler = h

	ms, ok := b.methodSets[literal]
	if !ok {
		fresh := []Method{}
		ms = &fresh
		b.methodSets[literal] = ms
	}
	*ms = append(*ms, method)

	optNode := walkOrCreate(b.trees[OPTIONS], segs)
	if optNode.handler == nil {
		optNode.handler = &Handler{Func: optionsHandler(ms)}
	}
	return nil
}

// optionsHandler builds the CORS-sentinel OPTIONS responder from §4.2:
// it reads methods at call time (through the pointer), not at synthesis
// time, so a route registered across several Register calls still gets
// a correct, complete Allow-Methods list.
func optionsHandler(methods *[]Method) HandlerFunc {
	return func(_ context.Context, req *Request) *Response {
		allowed := allowedOptionsMethods(*methods)
		requested, present := req.Headers.Get("Access-Control-Request-Method")
		if !present {
			return NotFound()
		}

		for _, m := range allowed {
			if strings.EqualFold(m, requested) {
				resp := NewResponse(501)
				resp.Headers.Insert("Access-Control-Allow-Methods", strings.Join(allowed, ", "))
				return resp
			}
		}
		resp := NewResponse(400)
		resp.Headers.Insert("Access-Control-Allow-Methods", strings.Join(allowed, ", "))
		return resp
	}
}

// allowedOptionsMethods expands methods with the implied HEAD (whenever
// GET is present) and the always-present OPTIONS itself, in a stable,
// deterministic order.
func allowedOptionsMethods(methods []Method) []string {
	seen := make(map[Method]bool, len(methods)+2)
	var out []string
	add := func(m Method) {
		if seen[m] {
			return
		}
		seen[m] = true
		out = append(out, string(m))
	}
	for _, m := range registrable {
		for _, got := range methods {
			if got == m {
				add(m)
				if m == GET {
					add(HEAD)
				}
			}
		}
	}
	add(OPTIONS)
	return out
}

// Name binds name to literal's segments for later reverse lookup via
// BuildURL (§4, supplemented feature). Registering the same name twice
// is a build-time error.
func (b *Builder) Name(name, literal string) error {
	if _, exists := b.names[name]; exists {
		return fmt.Errorf("fango: route name %q already registered", name)
	}
	segs, err := parseRouteLiteral(literal)
	if err != nil {
		return err
	}
	b.names[name] = segs
	return nil
}

// BuildURL substitutes params, in order, for each param segment of the
// route registered under name, and returns the resulting path.
func (b *Builder) BuildURL(name string, params ...string) (string, error) {
	segs, ok := b.names[name]
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
			return "", fmt.Errorf("fango: BuildURL(%q): need %d params, got %d", name, paramCount(segs), len(params))
		}
		buf.WriteString(params[pi])
		pi++
	}
	if buf.Len() == 0 {
		return "/", nil
	}
	return buf.String(), nil
}

func paramCount(segs []Segment) int {
	n := 0
	for _, s := range segs {
		if s.Kind == SegmentParam {
			n++
		}
	}
	return n
}

// Group returns a view over b scoped to prefix, for ergonomic nested
// route declaration and per-subtree Use. Groups share the underlying
// trees; nesting a Group under a Group only concatenates prefixes and
// mints a fresh router id for that level's own Use calls.
type Group struct {
	b      *Builder
	prefix string
	id     routerID
}

// Group creates a root-scoped Group ("" prefix).
func (b *Builder) Group(prefix string) *Group {
	return &Group{b: b, prefix: normalizePrefix(prefix), id: nextRouterID()}
}

func normalizePrefix(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	return strings.TrimSuffix(p, "/")
}

// Group nests a child group under g, concatenating prefixes.
func (g *Group) Group(prefix string) *Group {
	return &Group{b: g.b, prefix: g.prefix + normalizePrefix(prefix), id: nextRouterID()}
}

// Use attaches fangs to every route in g's subtree (present and future),
// with g's router id for idempotent dedup on merge (§3, §4.5).
func (g *Group) Use(fangs ...Fang) {
	if len(fangs) == 0 {
		return
	}
	prefixSegs, _ := parseRouteLiteral(literalOf(g.prefix))
	g.b.pending = append(g.b.pending, pendingFangApply{prefix: prefixSegs, id: g.id, fangs: fangs})
}

func literalOf(prefix string) string {
	if prefix == "" {
		return "/"
	}
	return prefix
}

func (g *Group) full(literal string) string {
	if literal == "/" {
		return literalOf(g.prefix)
	}
	return g.prefix + literal
}

// GET registers a GET handler at prefix+literal (and updates OPTIONS).
func (g *Group) GET(literal string, h *Handler) error { return g.b.registerSingle(GET, g.full(literal), h) }

// PUT registers a PUT handler at prefix+literal (and updates OPTIONS).
func (g *Group) PUT(literal string, h *Handler) error { return g.b.registerSingle(PUT, g.full(literal), h) }

// POST registers a POST handler at prefix+literal (and updates OPTIONS).
func (g *Group) POST(literal string, h *Handler) error {
	return g.b.registerSingle(POST, g.full(literal), h)
}

// PATCH registers a PATCH handler at prefix+literal (and updates OPTIONS).
func (g *Group) PATCH(literal string, h *Handler) error {
	return g.b.registerSingle(PATCH, g.full(literal), h)
}

// DELETE registers a DELETE handler at prefix+literal (and updates OPTIONS).
func (g *Group) DELETE(literal string, h *Handler) error {
	return g.b.registerSingle(DELETE, g.full(literal), h)
}

// Name binds name to prefix+literal for reverse routing.
func (g *Group) Name(name, literal string) error { return g.b.Name(name, g.full(literal)) }

// applyPending bakes every recorded Group.Use call into the live trees,
// deepest prefix first, so nested-group fangs land earlier (more inner)
// in each node's FangsList than their enclosing group's fangs (§4.2's
// composition rule, §9's router-id dedup). Idempotent.
func (b *Builder) applyPending() {
	if b.pendingApplied {
		return
	}
	b.pendingApplied = true

	sorted := make([]pendingFangApply, len(b.pending))
	copy(sorted, b.pending)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].prefix) > len(sorted[j].prefix)
	})

	for _, p := range sorted {
		for _, m := range allTrees {
			node := walkOrCreate(b.trees[m], p.prefix)
			applyFangsSubtree(node, p.id, p.fangs)
		}
	}
}

func applyFangsSubtree(node *buildNode, id routerID, fangs []Fang) {
	node.fangs.add(id, fangs...)
	for _, c := range node.children {
		applyFangsSubtree(c, id, fangs)
	}
}

// Merge attaches sub's entire tree under prefix (§4.2). sub's root must
// carry no handler for "/" in any method tree. sub's own Group.Use
// calls are baked into its tree first (post-order, "before merge");
// the receiving Builder's own pending fangs are applied later, at its
// own Finalize, so they land outside everything just merged in.
func (b *Builder) Merge(prefix string, sub *Builder) error {
	sub.applyPending()

	prefixSegs, err := parseRouteLiteral(literalOf(normalizePrefix(prefix)))
	if err != nil {
		return err
	}

	for _, m := range allTrees {
		if sub.trees[m].handler != nil {
			return fmt.Errorf("%w: method %s", ErrMergeRootHasHandler, m)
		}
	}

	for _, m := range allTrees {
		dst := walkOrCreate(b.trees[m], prefixSegs)
		if err := mergeNode(dst, sub.trees[m]); err != nil {
			return err
		}
	}

	for name, segs := range sub.names {
		full := append(append([]Segment{}, prefixSegs...), segs...)
		if _, exists := b.names[name]; exists {
			return fmt.Errorf("fango: route name %q already registered", name)
		}
		b.names[name] = full
	}
	for literal, ms := range sub.methodSets {
		full := prefix + literal
		if full == "" {
			full = "/"
		}
		b.methodSets[full] = ms
	}
	return nil
}

func mergeNode(dst, src *buildNode) error {
	dst.fangs.extend(&src.fangs)
	if src.handler != nil {
		if dst.handler != nil {
			return ErrHandlerAlreadyAtJoin
		}
		dst.handler = src.handler
	}
	for _, sc := range src.children {
		if dc := dst.matchChild(*sc.pattern); dc != nil {
			if err := mergeNode(dc, sc); err != nil {
				return err
			}
		} else {
			dst.children = append(dst.children, sc)
		}
	}
	return nil
}
