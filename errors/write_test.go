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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	err := Write(w, Response{
		Status:      http.StatusBadRequest,
		ContentType: "application/json; charset=utf-8",
		Body:        Envelope{ResponseID: "id-1", ErrorCause: HandleableError, Message: "nope"},
		Headers:     http.Header{"X-Response-Id": []string{"id-1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "id-1", w.Header().Get("X-Response-Id"))
	assert.JSONEq(t, `{"responseId":"id-1","errorCause":"HandleableError","message":"nope"}`, w.Body.String())
}

func TestWrite_Empty(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	require.NoError(t, Write(w, Response{}))

	assert.False(t, w.Flushed)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header())
}

func TestHandler(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(WithIDGenerator(sequentialIDs()))
	mux := http.NewServeMux()
	mux.Handle("GET /users/{id}", Handler(d, func(w http.ResponseWriter, r *http.Request) error {
		switch r.PathValue("id") {
		case "0":
			return NotFound("user not found")
		case "abort":
			return ErrClientAbort
		case "query":
			if _, ok := r.URL.Query()["mail"]; !ok {
				return MissingParam("mail")
			}
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	}))
	mux.Handle("/", NotFoundHandler(d))

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{
			name:   "domain not found",
			target: "/users/0",
			status: http.StatusNotFound,
			body:   `{"responseId":"id-1","errorCause":"HandleableError","message":"user not found"}`,
		},
		{
			name:   "missing parameter",
			target: "/users/query",
			status: http.StatusBadRequest,
			body: `{"responseId":"id-2","errorCause":"InvalidError","invalidErrors":[{"index":0,"itemErrors":[
				{"name":"mail","type":"Required","message":"Required request parameter 'mail' is not present"}]}]}`,
		},
		{
			name:   "no route",
			target: "/nowhere",
			status: http.StatusNotFound,
			body:   `{"responseId":"id-3","errorCause":"ResourceNotFound","message":"Not Found"}`,
		},
	}

	// Subtests share the id sequence and run in order.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/7", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("client abort writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/abort", nil))
		assert.Empty(t, w.Body.String())
		assert.Empty(t, w.Header().Get("Content-Type"))
	})
}
