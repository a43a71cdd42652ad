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


package metrics

import "go.opentelemetry.io/otel/metric"

// Option configures a [Recorder].
type Option func(*Recorder)

// WithMeterProvider records into provider instead of the built-in
// Prometheus exporter. [Recorder.Handler] is then unavailable.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) { r.provider = provider }
}

// WithGlobalMeterProvider registers the provider with otel.SetMeterProvider.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) { r.registerGlobal = true }
}

// WithServiceName adds a service.name attribute to every measurement.
func WithServiceName(name string) Option {
	return func(r *Recorder) { r.serviceName = name }
}

// WithServiceVersion adds a service.version attribute to every measurement.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) { r.serviceVersion = version }
}

// WithDurationBuckets sets the request duration histogram boundaries, in
// seconds. Empty input keeps the defaults.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.durationBuckets = buckets
		}
	}
}
