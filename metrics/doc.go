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


// Package metrics counts error envelopes and HTTP requests with
// OpenTelemetry instruments.
//
// By default a [Recorder] exports through a private Prometheus registry that
// [Recorder.Handler] serves. Supplying [WithMeterProvider] routes the
// instruments to another provider instead.
//
//	recorder := metrics.MustNew(metrics.WithServiceName("envelope-server"))
//	defer recorder.Shutdown(context.Background())
//
//	dispatcher := errors.NewDispatcher(errors.WithRecorder(recorder))
//	mux.Handle("/metrics", recorder.Handler())
//
// By default, this package does NOT set the global OpenTelemetry meter
// provider. Use [WithGlobalMeterProvider] for global registration.
package metrics
