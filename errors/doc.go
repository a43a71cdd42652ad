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

// Package errors renders request failures as uniform JSON error envelopes.
//
// A [Dispatcher] classifies a failure and builds an [Envelope]:
//
//   - no failure: 404 with errorCause "ResourceNotFound"
//   - body validation, parameter validation, missing parameter: "InvalidError"
//     with the field error tree built by package fielderr
//   - handleable domain failure: "HandleableError" with the failure's message
//   - anything else: "SystemException"
//
// A failure caused by the client closing the connection produces an empty
// [Response] and nothing is written.
//
// Failures declare their category through [Failure]; the dispatcher never
// switches on concrete types. Status codes come from a [StatusResolver], then
// from [ErrorType], and finally from the category defaults.
//
// # Quick Start
//
//	d := errors.NewDispatcher(errors.WithLogger(logger))
//
//	mux := http.NewServeMux()
//	mux.Handle("GET /users/{id}", errors.Handler(d, func(w http.ResponseWriter, r *http.Request) error {
//		if r.PathValue("id") == "0" {
//			return errors.NotFound("user not found")
//		}
//		return nil
//	}))
//	mux.Handle("/", errors.NotFoundHandler(d))
//
// # Envelope
//
//	{
//	  "responseId": "8c7c0d0e-2f43-4c1c-9d39-6c3f1b9e0e57",
//	  "errorCause": "InvalidError",
//	  "invalidErrors": [
//	    {"index": 0, "itemErrors": [{"name": "mail", "type": "Required", "message": "..."}]}
//	  ]
//	}
//
// Message and invalidErrors are never present together.
package errors
