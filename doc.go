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

// Package fango implements the routing and middleware composition core of
// a small HTTP server framework: a trie-based route builder that merges
// nested sub-routers and per-subtree middleware ("fangs"), a finalize step
// that compresses the trie and pre-composes each route's middleware chain
// into a single callable, and a dispatch loop that walks the compressed
// trie per request.
package fango
