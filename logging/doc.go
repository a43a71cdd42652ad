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


// Package logging builds the structured [slog.Logger] the error envelope
// stack writes through.
//
// Three output formats are supported: JSON, key=value text and a
// human-readable console format rendered by charmbracelet/log. Every handler
// is wrapped so that records logged with a context carrying an OpenTelemetry
// span get trace_id and span_id attributes.
//
// # Basic Usage
//
//	logger := logging.MustNew(
//	    logging.WithJSONHandler(),
//	    logging.WithServiceName("envelope-server"),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	logger.Logger().InfoContext(ctx, "server started", "addr", ":8080")
//
// Sensitive attribute keys (password, token, secret, api_key, authorization)
// are redacted by the JSON and text handlers.
package logging
