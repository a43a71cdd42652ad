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

package fielderr

import (
	"strconv"
	"strings"
)

// MaxDepth is the number of dot-separated segments a field path may have.
const MaxDepth = 2

// WrapperMarker is the carrier field name that prefixes violations of a
// collection validated through a wrapper object.
const WrapperMarker = "wrapListFields"

// Path is a parsed field identifier.
type Path struct {
	// Record is the index of the record inside a submitted collection.
	// It is 0 when the payload is a single object.
	Record int

	// Full is the identifier without the wrapper and record prefixes.
	Full string

	// Display is the reported field name: the only segment, or
	// "first.last" for two segments.
	Display string

	// Name is Display without a trailing element index. Element
	// violations are grouped under it.
	Name string

	// Element is the list element index, or -1 when the violation
	// targets the field itself.
	Element int

	// Depth is the number of dot-separated segments in Full.
	Depth int
}

// NestedOver reports whether the path is deeper than MaxDepth.
func (p Path) NestedOver() bool {
	return p.Depth > MaxDepth
}

// IsElement reports whether the path addresses one element of a list.
func (p Path) IsElement() bool {
	return p.Element >= 0
}

// ParsePath parses a raw field identifier such as "name", "hogeList[2]",
// "[1].nest.id" or "wrapListFields[0].email".
//
// A bracket that does not hold a non-negative integer is kept as part of the
// field name.
func ParsePath(raw string) Path {
	s := stripWrapper(raw)

	p := Path{Element: -1}
	if idx, rest, ok := leadingIndex(s); ok {
		p.Record, s = idx, rest
	}

	segs := strings.Split(s, ".")
	p.Full = s
	p.Depth = len(segs)
	if len(segs) == 1 {
		p.Display = segs[0]
	} else {
		p.Display = segs[0] + "." + segs[len(segs)-1]
	}

	p.Name = p.Display
	if base, idx, ok := trailingIndex(p.Display); ok {
		p.Name, p.Element = base, idx
	}

	return p
}

func stripWrapper(s string) string {
	rest, ok := strings.CutPrefix(s, WrapperMarker)
	if !ok || rest == "" {
		return s
	}
	switch rest[0] {
	case '.':
		return rest[1:]
	case '[':
		return rest
	}

	return s
}

// leadingIndex splits "[n].rest" into n and rest.
func leadingIndex(s string) (int, string, bool) {
	if !strings.HasPrefix(s, "[") {
		return 0, s, false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return 0, s, false
	}
	n, ok := index(s[1:end])
	if !ok {
		return 0, s, false
	}

	return n, strings.TrimPrefix(s[end+1:], "."), true
}

// trailingIndex splits "name[n]" into name and n.
func trailingIndex(s string) (string, int, bool) {
	if !strings.HasSuffix(s, "]") {
		return s, -1, false
	}
	open := strings.LastIndexByte(s, '[')
	if open <= 0 {
		return s, -1, false
	}
	n, ok := index(s[open+1 : len(s)-1])
	if !ok {
		return s, -1, false
	}

	return s[:open], n, true
}

func index(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}
