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

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const scopeName = "rivaas.dev/envelope/metrics"

// Attribute keys attached to recorded measurements.
const (
	AttrCause  = "error.cause"
	AttrStatus = "http.response.status_code"
	AttrMethod = "http.request.method"
)

var defaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// ErrNoHandler is returned by [Recorder.Handler] when the recorder does not
// export through its own Prometheus registry.
var ErrNoHandler = errors.New("metrics handler requires the built-in prometheus exporter")

// Recorder holds the meter provider and the instruments.
// All methods are safe for concurrent use.
type Recorder struct {
	provider metric.MeterProvider
	sdk      *sdkmetric.MeterProvider // owned provider, nil for WithMeterProvider
	handler  http.Handler

	envelopes       metric.Int64Counter
	requests        metric.Int64Counter
	requestDuration metric.Float64Histogram

	serviceAttrs    []attribute.KeyValue
	serviceName     string
	serviceVersion  string
	durationBuckets []float64
	registerGlobal  bool
}

// New creates a [Recorder].
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{durationBuckets: defaultDurationBuckets}
	for _, opt := range opts {
		opt(r)
	}

	if r.provider == nil {
		registry := promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		r.sdk = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
		r.provider = r.sdk
		r.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}
	if r.registerGlobal {
		otel.SetMeterProvider(r.provider)
	}

	if r.serviceName != "" {
		r.serviceAttrs = append(r.serviceAttrs, attribute.String("service.name", r.serviceName))
	}
	if r.serviceVersion != "" {
		r.serviceAttrs = append(r.serviceAttrs, attribute.String("service.version", r.serviceVersion))
	}

	if err := r.initInstruments(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew creates a [Recorder] or panics.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create metrics recorder: %v", err))
	}
	return r
}

func (r *Recorder) initInstruments() error {
	meter := r.provider.Meter(scopeName)

	var err error
	r.envelopes, err = meter.Int64Counter(
		"envelope_responses_total",
		metric.WithDescription("Error envelopes written, by cause and status"),
	)
	if err != nil {
		return fmt.Errorf("failed to create envelope counter: %w", err)
	}

	r.requests, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request count counter: %w", err)
	}

	r.requestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}
	return nil
}

// RecordEnvelope counts one error envelope.
func (r *Recorder) RecordEnvelope(ctx context.Context, cause string, status int) {
	r.envelopes.Add(ctx, 1, metric.WithAttributes(r.attrs(
		attribute.String(AttrCause, cause),
		attribute.Int(AttrStatus, status),
	)...))
}

func (r *Recorder) recordRequest(ctx context.Context, method string, status int, seconds float64) {
	set := metric.WithAttributes(r.attrs(
		attribute.String(AttrMethod, method),
		attribute.Int(AttrStatus, status),
	)...)
	r.requests.Add(ctx, 1, set)
	r.requestDuration.Record(ctx, seconds, set)
}

func (r *Recorder) attrs(kv ...attribute.KeyValue) []attribute.KeyValue {
	if len(r.serviceAttrs) == 0 {
		return kv
	}
	return append(kv, r.serviceAttrs...)
}

// Handler serves the Prometheus exposition of the recorder's registry.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.handler == nil {
		return nil, ErrNoHandler
	}
	return r.handler, nil
}

// Shutdown flushes and stops the meter provider the recorder created.
// Providers passed with WithMeterProvider are left to their owner.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.sdk == nil {
		return nil
	}
	if err := r.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down meter provider: %w", err)
	}
	return nil
}
