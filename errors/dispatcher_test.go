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


//go:build !integration

package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/envelope/fielderr"
)

func TestDispatcher_NotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		message string
	}{
		{name: "default message", message: "Not Found"},
		{name: "custom message", opts: []Option{WithNotFoundMessage("No such resource")}, message: "No such resource"},
		{name: "empty custom message keeps default", opts: []Option{WithNotFoundMessage("")}, message: "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
			resp := NewDispatcher(tt.opts...).Format(req, nil)

			assert.Equal(t, http.StatusNotFound, resp.Status)
			assert.Equal(t, "application/json; charset=utf-8", resp.ContentType)
			env := envelopeOf(resp)
			assert.Equal(t, ResourceNotFound, env.ErrorCause)
			assert.Equal(t, tt.message, env.Message)
			assert.Nil(t, env.InvalidErrors)
			assert.NotEmpty(t, env.ResponseID)
		})
	}
}

func TestDispatcher_ClientAbort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"sentinel", ErrClientAbort},
		{"wrapped sentinel", fmt.Errorf("write body: %w", ErrClientAbort)},
		{"context canceled", context.Canceled},
		{"abort handler", http.ErrAbortHandler},
		{"broken pipe", fmt.Errorf("write tcp: %w", syscall.EPIPE)},
		{"connection reset", syscall.ECONNRESET},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &testRecorder{}
			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			resp := NewDispatcher(WithRecorder(rec)).Format(req, tt.err)

			assert.True(t, resp.Empty())
			assert.Empty(t, rec.all())
		})
	}
}

func TestDispatcher_BodyValidation(t *testing.T) {
	t.Parallel()

	err := &BodyError{Violations: []fielderr.Violation{
		{Field: "name", Rule: "notblank", Message: "must not be blank"},
		{Field: "hogeList[1]", Rule: "max", Message: "must be less than or equal to 3"},
	}}

	req := httptest.NewRequest(http.MethodPost, "/test/form_error_test", nil)
	resp := NewDispatcher().Format(req, err)

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	env := envelopeOf(resp)
	assert.Equal(t, InvalidError, env.ErrorCause)
	assert.Empty(t, env.Message)
	require.Len(t, env.InvalidErrors, 1)
	assert.Equal(t, []fielderr.FieldError{
		{Name: "hogeList", ListErrors: []fielderr.ElementError{{Index: 1, Type: fielderr.Max, Message: "must be less than or equal to 3"}}},
		{Name: "name", Type: fielderr.NotBlank, Message: "must not be blank"},
	}, env.InvalidErrors[0].ItemErrors)
}

func TestDispatcher_ParamValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want []fielderr.FieldError
	}{
		{
			name: "rule violations",
			err: &ParamError{Violations: []fielderr.ParamViolation{
				{Path: "path.id", Rule: "length", Message: "length must be between 0 and 1"},
				{Path: "query.fuga", Rule: "max", Message: "must be less than or equal to 3"},
			}},
			want: []fielderr.FieldError{
				{Name: "id", Type: fielderr.Length, Message: "length must be between 0 and 1"},
				{Name: "fuga", Type: fielderr.Max, Message: "must be less than or equal to 3"},
			},
		},
		{
			name: "missing parameter",
			err:  MissingParam("mail"),
			want: []fielderr.FieldError{
				{Name: "mail", Type: fielderr.Required, Message: "Required request parameter 'mail' is not present"},
			},
		},
		{
			name: "wrapped missing parameter",
			err:  fmt.Errorf("bind query: %w", MissingParam("mail")),
			want: []fielderr.FieldError{
				{Name: "mail", Type: fielderr.Required, Message: "Required request parameter 'mail' is not present"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/test/param_error_test", nil)
			resp := NewDispatcher().Format(req, tt.err)

			assert.Equal(t, http.StatusBadRequest, resp.Status)
			env := envelopeOf(resp)
			assert.Equal(t, InvalidError, env.ErrorCause)
			assert.Empty(t, env.Message)
			require.Len(t, env.InvalidErrors, 1)
			assert.Equal(t, 0, env.InvalidErrors[0].Index)
			assert.Equal(t, tt.want, env.InvalidErrors[0].ItemErrors)
		})
	}
}

func TestDispatcher_Handleable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"bad request", Handleable("検証用"), http.StatusBadRequest, "検証用"},
		{"not found", NotFound("user 42 not found"), http.StatusNotFound, "user 42 not found"},
		{"wrapped keeps own message", fmt.Errorf("load user: %w", Handleable("user is locked")), http.StatusBadRequest, "user is locked"},
		{"explicit status", &HandleableError{Message: "conflict", Status: http.StatusConflict}, http.StatusConflict, "conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			resp := NewDispatcher().Format(req, tt.err)

			assert.Equal(t, tt.status, resp.Status)
			env := envelopeOf(resp)
			assert.Equal(t, HandleableError, env.ErrorCause)
			assert.Equal(t, tt.message, env.Message)
			assert.Nil(t, env.InvalidErrors)
		})
	}
}

func TestDispatcher_SystemException(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"plain error", &testError{message: "boom"}, http.StatusInternalServerError, "boom"},
		{"diagnostic wins", WithDiagnostic(&testError{message: "boom"}, "Request method 'PATCH' not supported"), http.StatusInternalServerError, "Request method 'PATCH' not supported"},
		{"blank diagnostic falls back", WithDiagnostic(&testError{message: "boom"}, "  "), http.StatusInternalServerError, "boom"},
		{"status from error", &testErrorWithStatus{message: "malformed body", status: http.StatusBadRequest}, http.StatusBadRequest, "malformed body"},
		{"with status", WithStatus(&testError{message: "upstream"}, http.StatusBadGateway), http.StatusBadGateway, "upstream"},
		{"invalid kind without field errors", &testFailure{kind: KindBody}, http.StatusInternalServerError, "test failure body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			resp := NewDispatcher().Format(req, tt.err)

			assert.Equal(t, tt.status, resp.Status)
			env := envelopeOf(resp)
			assert.Equal(t, SystemException, env.ErrorCause)
			assert.Equal(t, tt.message, env.Message)
			assert.Nil(t, env.InvalidErrors)
		})
	}
}

func TestDispatcher_UnknownRuleDegradesToSystemException(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := &BodyError{Violations: []fielderr.Violation{{Field: "name", Rule: "alpha", Message: "m"}}}
	resp := NewDispatcher(WithLogger(logger)).Format(httptest.NewRequest(http.MethodPost, "/", nil), err)

	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	env := envelopeOf(resp)
	assert.Equal(t, SystemException, env.ErrorCause)
	assert.Contains(t, env.Message, "unknown validation rule")
	assert.Contains(t, buf.String(), "failed to build invalid errors")
}

func TestDispatcher_EmptyViolationsDegradeToSystemException(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"body", &BodyError{}},
		{"param", &ParamError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := NewDispatcher().Format(httptest.NewRequest(http.MethodPost, "/", nil), tt.err)

			assert.Equal(t, http.StatusInternalServerError, resp.Status)
			env := envelopeOf(resp)
			assert.Equal(t, SystemException, env.ErrorCause)
			assert.Equal(t, ErrNoViolations.Error(), env.Message)
			assert.Nil(t, env.InvalidErrors)
		})
	}
}

func TestDispatcher_StatusResolver(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(WithStatusResolver(func(kind Kind, _ error) int {
		if kind == KindBody {
			return http.StatusUnprocessableEntity
		}
		return 0
	}))
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	body := &BodyError{Violations: []fielderr.Violation{{Field: "name", Rule: "required", Message: "m"}}}
	assert.Equal(t, http.StatusUnprocessableEntity, d.Format(req, body).Status)
	assert.Equal(t, http.StatusNotFound, d.Format(req, NotFound("gone")).Status)
	assert.Equal(t, http.StatusInternalServerError, d.Format(req, &testError{message: "x"}).Status)
}

func TestDispatcher_FreshResponseID(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	seen := make(map[string]struct{})
	for _, err := range []error{nil, Handleable("a"), &testError{message: "b"}, MissingParam("mail"), nil} {
		id := envelopeOf(d.Format(req, err)).ResponseID
		_, parseErr := uuid.Parse(id)
		require.NoError(t, parseErr)
		assert.NotContains(t, seen, id)
		seen[id] = struct{}{}
	}
}

func TestDispatcher_CustomIDGenerator(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(WithIDGenerator(sequentialIDs()), WithIDGenerator(nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Equal(t, "id-1", envelopeOf(d.Format(req, nil)).ResponseID)
	assert.Equal(t, "id-2", envelopeOf(d.Format(req, Handleable("x"))).ResponseID)
}

func TestDispatcher_Recorder(t *testing.T) {
	t.Parallel()

	rec := &testRecorder{}
	d := NewDispatcher(WithRecorder(rec))
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	d.Format(req, nil)
	d.Format(req, Handleable("x"))
	d.Format(req, MissingParam("mail"))
	d.Format(req, &testError{message: "boom"})

	assert.Equal(t, []recordedEnvelope{
		{cause: "ResourceNotFound", status: http.StatusNotFound},
		{cause: "HandleableError", status: http.StatusBadRequest},
		{cause: "InvalidError", status: http.StatusBadRequest},
		{cause: "SystemException", status: http.StatusInternalServerError},
	}, rec.all())
}

func TestDispatcher_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := NewDispatcher(WithLogger(logger), WithLogger(nil), WithIDGenerator(sequentialIDs()))

	d.Format(httptest.NewRequest(http.MethodPost, "/orders", nil), &testError{message: "db down"})
	d.Format(httptest.NewRequest(http.MethodGet, "/orders/1", nil), NotFound("order not found"))

	dec := json.NewDecoder(&buf)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "ERROR", first["level"])
	assert.Equal(t, "request failed", first["msg"])
	assert.Equal(t, "SystemException", first["cause"])
	assert.Equal(t, "id-1", first["response_id"])
	assert.Equal(t, "/orders", first["path"])
	assert.Equal(t, "db down", first["error"])

	assert.Equal(t, "DEBUG", second["level"])
	assert.Equal(t, "request rejected", second["msg"])
	assert.InDelta(t, float64(http.StatusNotFound), second["status"], 0)

	assert.ErrorIs(t, dec.Decode(&first), io.EOF)
}

func TestDispatcher_Tracing(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	d := NewDispatcher()

	ctx, span := tp.Tracer("test").Start(t.Context(), "system")
	d.Format(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx), &testError{message: "boom"})
	span.End()

	ctx, span = tp.Tracer("test").Start(t.Context(), "handleable")
	d.Format(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx), Handleable("nope"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)
	require.NotEmpty(t, ended[0].Events())
	assert.Equal(t, "exception", ended[0].Events()[0].Name)

	assert.Equal(t, codes.Unset, ended[1].Status().Code)
	require.NotEmpty(t, ended[1].Events())
}

func TestDispatcher_MessageAndInvalidErrorsExclusive(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	errs := []error{
		nil,
		Handleable("x"),
		NotFound("y"),
		&testError{message: "z"},
		MissingParam("mail"),
		&ParamError{Violations: []fielderr.ParamViolation{{Path: "query.a", Rule: "email", Message: "m"}}},
		&BodyError{Violations: []fielderr.Violation{{Field: "a.b.c", Rule: "max", Message: "m"}}},
	}

	for _, err := range errs {
		env := envelopeOf(d.Format(req, err))
		assert.NotEqual(t, env.Message != "", env.InvalidErrors != nil, "cause %s", env.ErrorCause)
	}
}

func TestDispatcher_NilRequest(t *testing.T) {
	t.Parallel()

	resp := NewDispatcher().Format(nil, Handleable("x"))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}
