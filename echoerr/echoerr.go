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


// Package echoerr renders error envelopes for echo servers.
//
//	e := echo.New()
//	e.HTTPErrorHandler = echoerr.ErrorHandler(dispatcher)
//	e.Validator = echoerr.NewValidator(v)
package echoerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/validation"
)

// ErrorHandler returns an echo.HTTPErrorHandler that writes envelopes.
//
// Unmatched routes and methods (echo.ErrNotFound and echo.ErrMethodNotAllowed
// from the router) become the ResourceNotFound envelope. A 404 raised by a
// handler keeps its message as a not-found HandleableError. Other
// *echo.HTTPError values become a
// SystemException carrying their code and message, unless they wrap a
// validation or domain failure, which is formatted as such.
func ErrorHandler(f apierrors.Formatter) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) && apierrors.Classify(err) == apierrors.KindSystem {
			switch {
			case errors.Is(err, echo.ErrNotFound), errors.Is(err, echo.ErrMethodNotAllowed):
				err = nil
			case he.Code == http.StatusNotFound:
				nf := apierrors.NotFound(fmt.Sprint(he.Message))
				nf.Err = err
				err = nf
			default:
				err = apierrors.WithStatus(apierrors.WithDiagnostic(err, fmt.Sprint(he.Message)), he.Code)
			}
		}

		resp := f.Format(c.Request(), err)
		if resp.Empty() {
			return
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.Status) //nolint:errcheck // nothing left to report to
			return
		}
		_ = apierrors.Write(c.Response(), resp) //nolint:errcheck // nothing left to report to
	}
}

// Validator adapts a [validation.Validator] to echo.Validator.
// Slices and arrays are validated as record collections.
type Validator struct {
	v *validation.Validator
}

var _ echo.Validator = (*Validator)(nil)

// NewValidator wraps v.
func NewValidator(v *validation.Validator) *Validator {
	return &Validator{v: v}
}

// Validate implements echo.Validator.
func (ev *Validator) Validate(i any) error {
	val := reflect.ValueOf(i)
	for val.Kind() == reflect.Pointer && !val.IsNil() {
		val = val.Elem()
	}
	if val.Kind() == reflect.Slice || val.Kind() == reflect.Array {
		return ev.v.Records(context.Background(), i)
	}
	return ev.v.Struct(context.Background(), i)
}
