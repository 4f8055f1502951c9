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
	"fmt"
	"strings"
)

// SegmentKind distinguishes the two route segment shapes from §3.
type SegmentKind int

const (
	SegmentStatic SegmentKind = iota
	SegmentParam
)

// Segment is one `/`-separated piece of a route literal.
type Segment struct {
	Kind  SegmentKind
	Value string // literal bytes for Static; param name (without ':') for Param
}

// parseRouteLiteral splits literal into its segments per §3/§6: it must
// begin with '/', a trailing '/' is not significant, and a segment
// beginning with ':' names a param. An empty param name (two consecutive
// slashes with nothing between, or a bare ":") is rejected.
func parseRouteLiteral(literal string) ([]Segment, error) {
	if literal == "" || literal[0] != '/' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRouteLiteral, literal)
	}

	trimmed := strings.TrimSuffix(literal, "/")
	if trimmed == "" {
		// the root literal "/"
		return nil, nil
	}

	parts := strings.Split(trimmed[1:], "/")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRouteLiteral, literal)
		}
		if part[0] == ':' {
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %q", ErrEmptyParamSegment, literal)
			}
			segments = append(segments, Segment{Kind: SegmentParam, Value: name})
		} else {
			segments = append(segments, Segment{Kind: SegmentStatic, Value: part})
		}
	}
	return segments, nil
}
