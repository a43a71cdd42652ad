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
	"net/http"
)

// Formatter defines how errors are formatted in HTTP responses.
// Implementations are framework-agnostic and work with any HTTP handler.
type Formatter interface {
	// Format converts an error into HTTP response components.
	// A nil err means no handler matched the request.
	Format(req *http.Request, err error) Response
}

// Response represents a formatted error response.
// The zero Response means nothing must be written.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, marshaled to JSON.
	Body any

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// Empty reports whether the response must be suppressed.
func (r Response) Empty() bool {
	return r.Status == 0 && r.Body == nil
}

// ErrorType allows errors to declare their own HTTP status code.
//
// Example:
//
//	type QuotaError struct{}
//
//	func (QuotaError) Error() string   { return "quota exceeded" }
//	func (QuotaError) HTTPStatus() int { return http.StatusTooManyRequests }
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// WithStatus wraps an error with an explicit HTTP status code.
// The wrapped error implements ErrorType and keeps the category of err.
//
// If err is nil, the status text for the given status code is used as the error message.
//
// Example:
//
//	return errors.WithStatus(err, http.StatusUnprocessableEntity)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

// statusError wraps an error with an explicit status code.
type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}
