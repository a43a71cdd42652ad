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


// Package requestid tags every request with an id for log correlation.
//
// The id is taken from the X-Request-ID request header when the client sent
// one, or generated otherwise. It is echoed in the response header and stored
// in the request context:
//
//	handler = requestid.New()(handler)
//
//	func serve(w http.ResponseWriter, r *http.Request) {
//	    logger.InfoContext(r.Context(), "serving", "request_id", requestid.Get(r.Context()))
//	}
//
// Request ids are not response ids: an error envelope always carries a fresh
// responseId of its own.
package requestid
