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
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/fielderr"
)

// Param is a path or query parameter to validate.
type Param struct {
	// In is where the parameter comes from, "path" or "query". It prefixes
	// the property path of violations.
	In string

	Name string

	// Value is the parameter value. Convert it before validation when rules
	// compare numbers, see [Param.Int].
	Value any

	// Present reports whether the request carried the parameter.
	Present bool

	// Rules is a validate tag, e.g. "required,email".
	Rules string
}

// PathParam returns a path parameter. Path parameters are always present.
func PathParam(name string, value any, rules string) Param {
	return Param{In: "path", Name: name, Value: value, Present: true, Rules: rules}
}

// QueryParam returns the first value of a query parameter of r.
// A parameter given without a value (?mail or ?mail=) is present and empty.
func QueryParam(r *http.Request, name, rules string) Param {
	p := Param{In: "query", Name: name, Rules: rules}
	if values, ok := r.URL.Query()[name]; ok {
		p.Present = true
		p.Value = ""
		if len(values) > 0 {
			p.Value = values[0]
		}
	}

	return p
}

// Int converts a present string value to int. A value that is not a number
// is answered with 400.
func (p Param) Int() (Param, error) {
	s, ok := p.Value.(string)
	if !p.Present || !ok {
		return p, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return p, apierrors.WithStatus(
			fmt.Errorf("parameter %q: %q is not a number", p.Name, s),
			http.StatusBadRequest,
		)
	}
	p.Value = n

	return p, nil
}

// Params validates parameters in order.
//
// It returns *errors.MissingParamError for the first absent parameter whose
// rules include required, then *errors.ParamError with the rule violations
// of present parameters. Absent optional parameters are not validated.
// A rule that cannot be reported is returned as a plain error before
// anything is validated.
func (v *Validator) Params(ctx context.Context, params ...Param) error {
	for _, p := range params {
		if err := checkTag(p.Rules); err != nil {
			return fmt.Errorf("parameter %q: %w", p.Name, err)
		}
	}

	for _, p := range params {
		if !p.Present && hasRule(p.Rules, "required") {
			return apierrors.MissingParam(p.Name)
		}
	}

	var violations []fielderr.ParamViolation
	for _, p := range params {
		if !p.Present {
			continue
		}
		rules := withoutRule(p.Rules, "required")
		if rules == "" {
			continue
		}

		err := v.tags.VarCtx(ctx, p.Value, rules)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		for _, e := range verrs {
			violations = append(violations, fielderr.ParamViolation{
				Path:    p.In + "." + p.Name,
				Rule:    e.Tag(),
				Message: v.message(e.Tag(), e.Param(), e.Kind()),
			})
		}
	}

	if len(violations) == 0 {
		return nil
	}
	if v.cfg.maxErrors > 0 && len(violations) > v.cfg.maxErrors {
		violations = violations[:v.cfg.maxErrors]
	}

	return &apierrors.ParamError{Violations: violations}
}

func hasRule(tag, rule string) bool {
	for _, r := range splitRules(tag) {
		if name, _, _ := strings.Cut(r, "="); name == rule {
			return true
		}
	}

	return false
}

func withoutRule(tag, rule string) string {
	parts := strings.Split(tag, ",")
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && p != rule {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, ",")
}
