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
	"strings"
)

// ParamViolation is a violation of a path or query parameter.
type ParamViolation struct {
	// Path is the property path of the parameter, e.g. "query.mail".
	// Only its last segment is reported.
	Path    string
	Rule    string
	Message string
}

// FromParams converts parameter violations into a single record with index 0.
// Parameters are reported in arrival order; the first violation of a
// parameter wins. It returns nil when there are no violations.
func FromParams(violations []ParamViolation) ([]RecordError, error) {
	if len(violations) == 0 {
		return nil, nil
	}

	rec := RecordError{Index: 0}
	seen := make(map[string]struct{}, len(violations))
	for _, v := range violations {
		t, err := LookupType(v.Rule)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", v.Path, err)
		}
		name := v.Path
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		rec.ItemErrors = append(rec.ItemErrors, FieldError{Name: name, Type: t, Message: v.Message})
	}

	return []RecordError{rec}, nil
}

// FromMissing reports a missing required parameter.
func FromMissing(name, message string) []RecordError {
	return []RecordError{{
		Index:      0,
		ItemErrors: []FieldError{{Name: name, Type: Required, Message: message}},
	}}
}
