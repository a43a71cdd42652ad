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
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Type is the rule type reported for a field or list element.
type Type string

// Rule types.
const (
	ReqBodyNestedOver Type = "ReqBodyNestedOver"
	Required          Type = "Required"
	NotBlank          Type = "NotBlank"
	Length            Type = "Length"
	Size              Type = "Size"
	Max               Type = "Max"
	Email             Type = "Email"
)

// ErrUnknownRule is returned when a rule identifier has no entry in [Rules].
var ErrUnknownRule = errors.New("fielderr: unknown validation rule")

// rules maps the rule identifiers used in validation tags to their Type.
// The table is closed: every rule a validator applies must appear here.
var rules = map[string]Type{
	"required": Required,
	"notblank": NotBlank,
	"length":   Length,
	"size":     Size,
	"max":      Max,
	"email":    Email,
}

// Rules returns the supported rule identifiers in lexical order.
func Rules() []string {
	return slices.Sorted(maps.Keys(rules))
}

// LookupType resolves a rule identifier to its Type.
func LookupType(rule string) (Type, error) {
	if t, ok := rules[rule]; ok {
		return t, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRule, rule)
}

// CheckRules reports every identifier in rules that has no Type.
// The returned error joins one ErrUnknownRule per offending identifier.
func CheckRules(rules ...string) error {
	var errs []error
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if _, err := LookupType(r); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
