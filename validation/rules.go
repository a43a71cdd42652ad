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

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/envelope/fielderr"
)

// structural tags steer go-playground/validator but are not rules.
var structural = map[string]bool{
	"dive":      true,
	"keys":      true,
	"endkeys":   true,
	"omitempty": true,
	"omitnil":   true,
	"omitzero":  true,
}

// parseRange parses "min:max", ":max", "min:" or "n" (exact).
// An open upper bound is returned as -1.
func parseRange(param string) (lo, hi int, err error) {
	if param == "" {
		return 0, 0, errors.New("missing range")
	}

	loText, hiText, found := strings.Cut(param, ":")
	if !found {
		n, err := strconv.Atoi(param)
		if err != nil || n < 0 {
			return 0, 0, fmt.Errorf("invalid range %q", param)
		}
		return n, n, nil
	}

	hi = -1
	if loText != "" {
		if lo, err = strconv.Atoi(loText); err != nil || lo < 0 {
			return 0, 0, fmt.Errorf("invalid range %q", param)
		}
	}
	if hiText != "" {
		if hi, err = strconv.Atoi(hiText); err != nil || hi < lo {
			return 0, 0, fmt.Errorf("invalid range %q", param)
		}
	}

	return lo, hi, nil
}

func inRange(fl validator.FieldLevel, count func(reflect.Value) (int, bool)) bool {
	lo, hi, err := parseRange(fl.Param())
	if err != nil {
		return false
	}
	n, ok := count(fl.Field())
	if !ok {
		return false
	}

	return n >= lo && (hi < 0 || n <= hi)
}

// lengthRule checks the character count of a string.
func lengthRule(fl validator.FieldLevel) bool {
	return inRange(fl, func(f reflect.Value) (int, bool) {
		if f.Kind() != reflect.String {
			return 0, false
		}
		return utf8.RuneCountInString(f.String()), true
	})
}

// sizeRule checks the number of elements of a slice, array or map.
func sizeRule(fl validator.FieldLevel) bool {
	return inRange(fl, func(f reflect.Value) (int, bool) {
		switch f.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return f.Len(), true
		default:
			return 0, false
		}
	})
}

// splitRules splits a validate tag on ',' and '|'.
func splitRules(tag string) []string {
	var out []string
	for _, part := range strings.Split(tag, ",") {
		for _, alt := range strings.Split(part, "|") {
			if alt = strings.TrimSpace(alt); alt != "" {
				out = append(out, alt)
			}
		}
	}

	return out
}

// checkTag reports rules of tag that cannot be reported or have an
// invalid parameter.
func checkTag(tag string) error {
	var errs []error
	for _, r := range splitRules(tag) {
		name, param, _ := strings.Cut(r, "=")
		if structural[name] {
			continue
		}
		if _, err := fielderr.LookupType(name); err != nil {
			errs = append(errs, err)
			continue
		}
		if name == "length" || name == "size" {
			if _, _, err := parseRange(param); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}

	return errors.Join(errs...)
}

// checkType checks the validate tags of t and of every struct reachable
// from its fields.
func checkType(t reflect.Type) error {
	var errs []error
	walkTags(t, make(map[reflect.Type]bool), func(field, tag string) {
		if err := checkTag(tag); err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", field, err))
		}
	})

	return errors.Join(errs...)
}

func walkTags(t reflect.Type, seen map[reflect.Type]bool, visit func(field, tag string)) {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || seen[t] {
		return
	}
	seen[t] = true

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag := f.Tag.Get("validate"); tag != "" && tag != "-" {
			visit(t.Name()+"."+f.Name, tag)
		}
		walkTags(f.Type, seen, visit)
	}
}
