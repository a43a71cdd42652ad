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


package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/middleware/requestid"
)

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	stackTrace bool
	stackSize  int
	message    string
}

func defaultConfig() *config {
	return &config{
		logger:     slog.Default(),
		stackTrace: true,
		stackSize:  4 << 10,
	}
}

// PanicError carries a recovered panic value.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// New returns a middleware that recovers from panics in next and writes the
// envelope f formats for them. It should wrap every other middleware.
func New(f apierrors.Formatter, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
					panic(rec)
				}
				cfg.recovered(w, r, rec, f)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func (cfg *config) recovered(w http.ResponseWriter, r *http.Request, rec any, f apierrors.Formatter) {
	perr := &PanicError{Value: rec}
	if cfg.stackTrace {
		perr.Stack = debug.Stack()
		if len(perr.Stack) > cfg.stackSize {
			perr.Stack = perr.Stack[:cfg.stackSize]
		}
	}

	ctx := r.Context()
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetStatus(codes.Error, "panic recovered")
		span.SetAttributes(
			attribute.Bool("exception.escaped", true),
			attribute.String("exception.type", fmt.Sprintf("%T", rec)),
			attribute.String("exception.message", fmt.Sprintf("%v", rec)),
		)
	}

	if cfg.logger != nil {
		attrs := []any{"panic", fmt.Sprintf("%v", rec), "method", r.Method, "path", r.URL.Path}
		if id := requestid.Get(ctx); id != "" {
			attrs = append(attrs, "request_id", id)
		}
		if len(perr.Stack) > 0 {
			attrs = append(attrs, "stack", string(perr.Stack))
		}
		cfg.logger.ErrorContext(ctx, "panic recovered", attrs...)
	}

	var err error = perr
	if cfg.message != "" {
		err = apierrors.WithDiagnostic(perr, cfg.message)
	}
	_ = apierrors.Write(w, f.Format(r, err)) //nolint:errcheck // nothing left to report to
}

// IsPanic reports whether err came from a recovered panic.
func IsPanic(err error) bool {
	var perr *PanicError
	return errors.As(err, &perr)
}
