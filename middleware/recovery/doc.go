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


// Package recovery provides net/http middleware that turns panics in
// downstream handlers into SystemException error envelopes.
//
//	dispatcher := errors.NewDispatcher()
//	handler := recovery.New(dispatcher, recovery.WithLogger(logger))(mux)
//
// Panics with [http.ErrAbortHandler] are re-raised so the server aborts the
// response as usual.
package recovery
