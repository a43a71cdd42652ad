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

package echoerr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/fielderr"
	"rivaas.dev/envelope/validation"
)

type account struct {
	Email string `json:"email" validate:"required,email"`
}

func newServer() *echo.Echo {
	d := apierrors.NewDispatcher(apierrors.WithIDGenerator(func() string { return "id-1" }))

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(d)
	e.Validator = NewValidator(validation.MustNew(validation.WithTypes(account{})))

	e.POST("/accounts", func(c echo.Context) error {
		var a account
		if err := c.Bind(&a); err != nil {
			return err
		}
		if err := c.Validate(&a); err != nil {
			return err
		}
		return c.NoContent(http.StatusCreated)
	})
	e.POST("/accounts/batch", func(c echo.Context) error {
		var as []account
		if err := c.Bind(&as); err != nil {
			return err
		}
		if err := c.Validate(as); err != nil {
			return err
		}
		return c.NoContent(http.StatusCreated)
	})
	e.GET("/teapot", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})
	e.GET("/missing", func(echo.Context) error {
		return apierrors.NotFound("account 7 does not exist")
	})
	e.GET("/users/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "user "+c.Param("id")+" not found")
	})
	e.GET("/wrapped", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(apierrors.MissingParam("id"))
	})
	return e
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantCause  apierrors.Cause
		wantMsg    string
		wantErrors []fielderr.RecordError
	}{
		{
			name:       "valid",
			method:     http.MethodPost,
			target:     "/accounts",
			body:       `{"email":"a@example.com"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid body",
			method:     http.MethodPost,
			target:     "/accounts",
			body:       `{"email":"nope"}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  apierrors.InvalidError,
			wantErrors: []fielderr.RecordError{{
				ItemErrors: []fielderr.FieldError{{Name: "email", Type: fielderr.Email, Message: "must be a well-formed email address"}},
			}},
		},
		{
			name:       "invalid batch",
			method:     http.MethodPost,
			target:     "/accounts/batch",
			body:       `[{"email":"a@example.com"},{}]`,
			wantStatus: http.StatusBadRequest,
			wantCause:  apierrors.InvalidError,
			wantErrors: []fielderr.RecordError{{
				Index:      1,
				ItemErrors: []fielderr.FieldError{{Name: "email", Type: fielderr.Required, Message: "must not be null"}},
			}},
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			target:     "/nowhere",
			wantStatus: http.StatusNotFound,
			wantCause:  apierrors.ResourceNotFound,
			wantMsg:    apierrors.DefaultNotFoundMessage,
		},
		{
			name:       "wrong method",
			method:     http.MethodDelete,
			target:     "/accounts",
			wantStatus: http.StatusNotFound,
			wantCause:  apierrors.ResourceNotFound,
			wantMsg:    apierrors.DefaultNotFoundMessage,
		},
		{
			name:       "http error",
			method:     http.MethodGet,
			target:     "/teapot",
			wantStatus: http.StatusTeapot,
			wantCause:  apierrors.SystemException,
			wantMsg:    "short and stout",
		},
		{
			name:       "domain not found",
			method:     http.MethodGet,
			target:     "/missing",
			wantStatus: http.StatusNotFound,
			wantCause:  apierrors.HandleableError,
			wantMsg:    "account 7 does not exist",
		},
		{
			name:       "handler raised not found",
			method:     http.MethodGet,
			target:     "/users/7",
			wantStatus: http.StatusNotFound,
			wantCause:  apierrors.HandleableError,
			wantMsg:    "user 7 not found",
		},
		{
			name:       "wrapped failure",
			method:     http.MethodGet,
			target:     "/wrapped",
			wantStatus: http.StatusBadRequest,
			wantCause:  apierrors.InvalidError,
			wantErrors: []fielderr.RecordError{{
				ItemErrors: []fielderr.FieldError{{Name: "id", Type: fielderr.Required, Message: "Required request parameter 'id' is not present"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			newServer().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCause == "" {
				return
			}
			var env apierrors.Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, "id-1", env.ResponseID)
			assert.Equal(t, tt.wantCause, env.ErrorCause)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Equal(t, tt.wantErrors, env.InvalidErrors)
		})
	}
}

func TestErrorHandler_MalformedBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"email":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	newServer().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var env apierrors.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, apierrors.SystemException, env.ErrorCause)
	assert.NotEmpty(t, env.Message)
}

func TestErrorHandler_Head(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newServer().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, rec.Body.Len())
}
