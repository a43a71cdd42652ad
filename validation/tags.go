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
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/fielderr"
)

// Struct validates a struct using its validate tags.
// It returns nil, a *errors.BodyError, or an error for values that are not
// structs.
func (v *Validator) Struct(ctx context.Context, val any) error {
	violations, err := v.structViolations(ctx, val, "")
	if err != nil {
		return err
	}

	return v.bodyError(violations)
}

// Records validates every element of a slice or array of structs. Each
// violation is prefixed with "[i]." so it lands in the record of its element.
// Nil elements are skipped.
func (v *Validator) Records(ctx context.Context, records any) error {
	rv := reflect.ValueOf(records)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("validation: records must be a slice, got %T", records)
	}

	var violations []fielderr.Violation
	for i := range rv.Len() {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Ptr && elem.IsNil() {
			continue
		}
		vs, err := v.structViolations(ctx, elem.Interface(), "["+strconv.Itoa(i)+"].")
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		violations = append(violations, vs...)
	}

	return v.bodyError(violations)
}

// bodyError caps violations at maxErrors. The cap is skipped when a path is
// nested too deep, since that violation replaces every other one.
func (v *Validator) bodyError(violations []fielderr.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	if v.cfg.maxErrors > 0 && len(violations) > v.cfg.maxErrors && !anyNestedOver(violations) {
		violations = violations[:v.cfg.maxErrors]
	}

	return &apierrors.BodyError{Violations: violations}
}

func anyNestedOver(violations []fielderr.Violation) bool {
	for _, vi := range violations {
		if fielderr.ParsePath(vi.Field).NestedOver() {
			return true
		}
	}

	return false
}

func (v *Validator) structViolations(ctx context.Context, val any, prefix string) ([]fielderr.Violation, error) {
	err := v.tags.StructCtx(ctx, val)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	out := make([]fielderr.Violation, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, fielderr.Violation{
			Field:   prefix + fieldPath(e),
			Rule:    e.Tag(),
			Message: v.message(e.Tag(), e.Param(), e.Kind()),
		})
	}

	return out, nil
}

// fieldPath strips the root struct name from the namespace,
// e.g. "Form.nest.list[1]" becomes "nest.list[1]".
func fieldPath(e validator.FieldError) string {
	if _, rest, ok := strings.Cut(e.Namespace(), "."); ok {
		return rest
	}

	return e.Field()
}
