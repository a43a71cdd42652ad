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
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"rivaas.dev/envelope/fielderr"
)

// Test helpers for dispatcher tests

type testError struct {
	message string
}

func (e *testError) Error() string {
	return e.message
}

type testErrorWithStatus struct {
	message string
	status  int
}

func (e *testErrorWithStatus) Error() string {
	return e.message
}

func (e *testErrorWithStatus) HTTPStatus() int {
	return e.status
}

// testFailure declares a kind without carrying field errors.
type testFailure struct {
	kind Kind
}

func (e *testFailure) Error() string {
	return "test failure " + e.kind.String()
}

func (e *testFailure) FailureKind() Kind {
	return e.kind
}

type recordedEnvelope struct {
	cause  string
	status int
}

type testRecorder struct {
	mu      sync.Mutex
	records []recordedEnvelope
}

func (r *testRecorder) RecordEnvelope(_ context.Context, cause string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recordedEnvelope{cause: cause, status: status})
}

func (r *testRecorder) all() []recordedEnvelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEnvelope(nil), r.records...)
}

// sequentialIDs returns a generator yielding "id-1", "id-2", ...
func sequentialIDs() IDGenerator {
	var n atomic.Int64
	return func() string {
		return "id-" + strconv.FormatInt(n.Add(1), 10)
	}
}

// envelopeOf returns the Envelope body of resp.
func envelopeOf(resp Response) Envelope {
	env, _ := resp.Body.(Envelope)
	return env
}

func violation(field, message string) fielderr.Violation {
	return fielderr.Violation{Field: field, Rule: "notblank", Message: message}
}

func paramViolation(path, message string) fielderr.ParamViolation {
	return fielderr.ParamViolation{Path: path, Rule: "email", Message: message}
}
