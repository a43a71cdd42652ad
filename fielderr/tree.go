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
	"fmt"
	"slices"
	"strings"
)

// Violation is a raw violation reported by a validation engine.
type Violation struct {
	// Field is the raw field identifier, e.g. "[0].nest.list[1]".
	Field string

	// Rule is the rule identifier, e.g. "notblank". See [Rules].
	Rule string

	// Message is the rendered message.
	Message string
}

// RecordError groups the field errors of one record.
type RecordError struct {
	Index      int          `json:"index"`
	ItemErrors []FieldError `json:"itemErrors"`
}

// FieldError describes a violating field. A field whose elements are in
// violation has ListErrors and neither Type nor Message.
type FieldError struct {
	Name       string         `json:"name"`
	Type       Type           `json:"type,omitempty"`
	Message    string         `json:"message,omitempty"`
	ListErrors []ElementError `json:"listErrors,omitempty"`
}

// ElementError describes a violating list element.
type ElementError struct {
	Index   int    `json:"index"`
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

// Build folds violations into record errors.
//
// If any field path is deeper than MaxDepth, the result is a single record
// with index 0 holding one ReqBodyNestedOver entry per offending field, and
// every other violation is dropped. Entries are named by the full path with a
// trailing element index removed, so "nestedOver.nest.list[1]" and
// "nestedOver.nest.list[3]" are reported once as "nestedOver.nest.list".
//
// Otherwise violations are visited in lexical order of their raw field:
//   - records and fields appear in the order they are first seen;
//   - the first direct violation of a field wins;
//   - once a field has an element violation it is reported as a list:
//     type and message are cleared and later direct violations are ignored;
//   - element violations keep their order and may repeat an index.
//
// Build returns an error wrapping ErrUnknownRule if a rule has no Type.
func Build(violations []Violation) ([]RecordError, error) {
	if over := nestedOver(violations); over != nil {
		return over, nil
	}

	sorted := slices.Clone(violations)
	slices.SortStableFunc(sorted, func(a, b Violation) int {
		return strings.Compare(a.Field, b.Field)
	})

	b := newBuilder()
	for _, v := range sorted {
		t, err := LookupType(v.Rule)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", v.Field, err)
		}
		b.add(ParsePath(v.Field), t, v.Message)
	}

	return b.records, nil
}

func nestedOver(violations []Violation) []RecordError {
	var items []FieldError
	seen := make(map[string]struct{})
	for _, v := range violations {
		p := ParsePath(v.Field)
		if !p.NestedOver() {
			continue
		}
		name := p.Full
		if base, _, ok := trailingIndex(name); ok {
			name = base
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		items = append(items, FieldError{Name: name, Type: ReqBodyNestedOver})
	}
	if len(items) == 0 {
		return nil
	}

	return []RecordError{{Index: 0, ItemErrors: items}}
}

type builder struct {
	records []RecordError
	pos     map[int]int
	fields  []map[string]int
}

func newBuilder() *builder {
	return &builder{pos: make(map[int]int)}
}

// field finds or creates the named field of a record.
func (b *builder) field(record int, name string) *FieldError {
	pos, ok := b.pos[record]
	if !ok {
		pos = len(b.records)
		b.pos[record] = pos
		b.records = append(b.records, RecordError{Index: record})
		b.fields = append(b.fields, make(map[string]int))
	}

	rec := &b.records[pos]
	i, ok := b.fields[pos][name]
	if !ok {
		i = len(rec.ItemErrors)
		b.fields[pos][name] = i
		rec.ItemErrors = append(rec.ItemErrors, FieldError{Name: name})
	}

	return &rec.ItemErrors[i]
}

func (b *builder) add(p Path, t Type, msg string) {
	if p.IsElement() {
		f := b.field(p.Record, p.Name)
		f.Type, f.Message = "", ""
		f.ListErrors = append(f.ListErrors, ElementError{Index: p.Element, Type: t, Message: msg})
		return
	}

	f := b.field(p.Record, p.Name)
	if f.Type != "" || len(f.ListErrors) > 0 {
		return
	}
	f.Type, f.Message = t, msg
}
