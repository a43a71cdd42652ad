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
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/envelope/fielderr"
)

// ErrNoViolations is reported when a validation failure carries no
// violations. Such a failure is answered as a SystemException.
var ErrNoViolations = errors.New("validation failure without violations")

// Cause is the errorCause of an envelope.
type Cause string

// Envelope causes.
const (
	SystemException  Cause = "SystemException"
	HandleableError  Cause = "HandleableError"
	ResourceNotFound Cause = "ResourceNotFound"
	InvalidError     Cause = "InvalidError"
)

// Envelope is the JSON body of every error response.
type Envelope struct {
	ResponseID    string                 `json:"responseId"`
	ErrorCause    Cause                  `json:"errorCause"`
	Message       string                 `json:"message,omitempty"`
	InvalidErrors []fielderr.RecordError `json:"invalidErrors,omitempty"`
}

// DefaultNotFoundMessage is the message of the envelope returned when no
// handler matched.
const DefaultNotFoundMessage = "Not Found"

const contentType = "application/json; charset=utf-8"

// Recorder observes every envelope the dispatcher produces.
type Recorder interface {
	RecordEnvelope(ctx context.Context, cause string, status int)
}

// StatusResolver returns the status for a failure, or 0 to fall back to
// ErrorType and the kind defaults.
type StatusResolver func(kind Kind, err error) int

// Dispatcher formats request failures as envelopes.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	logger          *slog.Logger
	recorder        Recorder
	newID           IDGenerator
	resolveStatus   StatusResolver
	notFoundMessage string
}

// NewDispatcher returns a Dispatcher configured by opts.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:          slog.New(slog.DiscardHandler),
		newID:           UUID,
		notFoundMessage: DefaultNotFoundMessage,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Format implements Formatter.
func (d *Dispatcher) Format(req *http.Request, err error) Response {
	ctx := context.Background()
	if req != nil {
		ctx = req.Context()
	}

	if err == nil {
		return d.respond(ctx, req, nil, http.StatusNotFound, Envelope{
			ErrorCause: ResourceNotFound,
			Message:    d.notFoundMessage,
		})
	}

	if IsClientAbort(err) {
		d.logger.DebugContext(ctx, "client aborted request", "error", err)
		return Response{}
	}

	f := failureOf(err)
	kind := KindSystem
	if f != nil {
		kind = f.FailureKind()
	}

	switch kind {
	case KindBody, KindParam, KindMissingParam:
		inv, ok := f.(Invalid)
		if !ok {
			break
		}
		records, buildErr := inv.InvalidErrors()
		if buildErr == nil && len(records) == 0 {
			buildErr = ErrNoViolations
		}
		if buildErr != nil {
			d.logger.ErrorContext(ctx, "failed to build invalid errors", "error", buildErr)
			return d.respond(ctx, req, buildErr, http.StatusInternalServerError, Envelope{
				ErrorCause: SystemException,
				Message:    buildErr.Error(),
			})
		}

		return d.respond(ctx, req, err, d.status(kind, err), Envelope{
			ErrorCause:    InvalidError,
			InvalidErrors: records,
		})

	case KindHandleable:
		return d.respond(ctx, req, err, d.status(kind, err), Envelope{
			ErrorCause: HandleableError,
			Message:    f.Error(),
		})
	}

	msg := diagnosticOf(err)
	if msg == "" {
		msg = err.Error()
	}

	return d.respond(ctx, req, err, d.status(KindSystem, err), Envelope{
		ErrorCause: SystemException,
		Message:    msg,
	})
}

// status resolves the status code: StatusResolver, then ErrorType, then
// 500 for system failures and 400 for the rest.
func (d *Dispatcher) status(kind Kind, err error) int {
	if d.resolveStatus != nil {
		if s := d.resolveStatus(kind, err); s != 0 {
			return s
		}
	}

	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	if kind == KindSystem {
		return http.StatusInternalServerError
	}

	return http.StatusBadRequest
}

func (d *Dispatcher) respond(ctx context.Context, req *http.Request, err error, status int, env Envelope) Response {
	env.ResponseID = d.newID()

	attrs := []any{
		"response_id", env.ResponseID,
		"cause", string(env.ErrorCause),
		"status", status,
	}
	if req != nil {
		attrs = append(attrs, "method", req.Method, "path", req.URL.Path)
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	if env.ErrorCause == SystemException {
		d.logger.ErrorContext(ctx, "request failed", attrs...)
	} else {
		d.logger.DebugContext(ctx, "request rejected", attrs...)
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("error.cause", string(env.ErrorCause)),
			attribute.String("error.response_id", env.ResponseID),
		)
		if err != nil {
			span.RecordError(err)
		}
		if env.ErrorCause == SystemException {
			span.SetStatus(codes.Error, env.Message)
		}
	}

	if d.recorder != nil {
		d.recorder.RecordEnvelope(ctx, string(env.ErrorCause), status)
	}

	return Response{
		Status:      status,
		ContentType: contentType,
		Body:        env,
	}
}
