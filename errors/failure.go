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

package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"

	"rivaas.dev/envelope/fielderr"
)

// Kind is the category of a request failure.
type Kind int

// Failure kinds.
const (
	// KindSystem is any failure that declares no other kind.
	KindSystem Kind = iota
	// KindBody is a request body validation failure.
	KindBody
	// KindParam is a path or query parameter validation failure.
	KindParam
	// KindMissingParam is a missing required parameter.
	KindMissingParam
	// KindHandleable is a recognized domain failure.
	KindHandleable
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindParam:
		return "param"
	case KindMissingParam:
		return "missing_param"
	case KindHandleable:
		return "handleable"
	default:
		return "system"
	}
}

// Failure is an error that declares its kind.
type Failure interface {
	error
	FailureKind() Kind
}

// Invalid is a failure that carries field errors.
// Failures of kind KindBody, KindParam and KindMissingParam implement it.
type Invalid interface {
	Failure
	InvalidErrors() ([]fielderr.RecordError, error)
}

// Classify returns the kind of the first Failure in err's chain,
// or KindSystem if there is none.
func Classify(err error) Kind {
	if f := failureOf(err); f != nil {
		return f.FailureKind()
	}

	return KindSystem
}

func failureOf(err error) Failure {
	var f Failure
	if errors.As(err, &f) {
		return f
	}

	return nil
}

// BodyError reports request body violations.
type BodyError struct {
	Violations []fielderr.Violation
}

func (e *BodyError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}

	return "invalid request body: " + strings.Join(parts, "; ")
}

// FailureKind returns KindBody.
func (e *BodyError) FailureKind() Kind { return KindBody }

// InvalidErrors builds the field error tree.
func (e *BodyError) InvalidErrors() ([]fielderr.RecordError, error) {
	return fielderr.Build(e.Violations)
}

// ParamError reports path or query parameter violations.
type ParamError struct {
	Violations []fielderr.ParamViolation
}

func (e *ParamError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Path+": "+v.Message)
	}

	return "invalid request parameters: " + strings.Join(parts, "; ")
}

// FailureKind returns KindParam.
func (e *ParamError) FailureKind() Kind { return KindParam }

// InvalidErrors builds the field error tree.
func (e *ParamError) InvalidErrors() ([]fielderr.RecordError, error) {
	return fielderr.FromParams(e.Violations)
}

// MissingParamError reports a required parameter that is absent.
type MissingParamError struct {
	Name    string
	Message string
}

// MissingParam returns a MissingParamError with the default message.
func MissingParam(name string) *MissingParamError {
	return &MissingParamError{
		Name:    name,
		Message: fmt.Sprintf("Required request parameter '%s' is not present", name),
	}
}

func (e *MissingParamError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "missing parameter " + e.Name
}

// FailureKind returns KindMissingParam.
func (e *MissingParamError) FailureKind() Kind { return KindMissingParam }

// InvalidErrors builds the field error tree.
func (e *MissingParamError) InvalidErrors() ([]fielderr.RecordError, error) {
	return fielderr.FromMissing(e.Name, e.Message), nil
}

// HandleableError is a domain failure whose message is safe to return to
// the client.
type HandleableError struct {
	Message string

	// Status is the HTTP status; 0 means 400.
	Status int

	// Err is the underlying cause, if any.
	Err error
}

// Handleable returns a HandleableError answered with 400.
func Handleable(message string) *HandleableError {
	return &HandleableError{Message: message}
}

// NotFound returns a HandleableError answered with 404.
func NotFound(message string) *HandleableError {
	return &HandleableError{Message: message, Status: http.StatusNotFound}
}

func (e *HandleableError) Error() string { return e.Message }

func (e *HandleableError) Unwrap() error { return e.Err }

// FailureKind returns KindHandleable.
func (e *HandleableError) FailureKind() Kind { return KindHandleable }

// HTTPStatus implements ErrorType.
func (e *HandleableError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}

	return e.Status
}

// WithDiagnostic attaches a transport diagnostic to err. The diagnostic, when
// not blank, replaces err's message in a SystemException envelope.
func WithDiagnostic(err error, diagnostic string) error {
	return &diagnosticError{err: err, diagnostic: diagnostic}
}

type diagnosticError struct {
	err        error
	diagnostic string
}

func (e *diagnosticError) Error() string {
	if e.err == nil {
		return e.diagnostic
	}
	return e.err.Error()
}

func (e *diagnosticError) Unwrap() error { return e.err }

func (e *diagnosticError) Diagnostic() string { return e.diagnostic }

func diagnosticOf(err error) string {
	var d interface{ Diagnostic() string }
	if errors.As(err, &d) {
		return strings.TrimSpace(d.Diagnostic())
	}

	return ""
}

// ErrClientAbort marks a failure caused by the client closing the connection.
var ErrClientAbort = errors.New("client aborted the request")

// IsClientAbort reports whether err was caused by the client going away:
// ErrClientAbort, context.Canceled, http.ErrAbortHandler, a broken pipe or a
// connection reset.
func IsClientAbort(err error) bool {
	return errors.Is(err, ErrClientAbort) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, http.ErrAbortHandler) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}
