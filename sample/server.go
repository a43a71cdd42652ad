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


package sample

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/ginerr"
	"rivaas.dev/envelope/metrics"
	"rivaas.dev/envelope/middleware/recovery"
	"rivaas.dev/envelope/middleware/requestid"
	"rivaas.dev/envelope/validation"
)

const tracerName = "rivaas.dev/envelope/sample"

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger of the server and its error dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithRecorder counts envelopes and requests with r and, when metrics are
// enabled in the settings, serves r's scrape endpoint.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithTracerProvider sets the provider of request spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracerProvider = tp }
}

// Server is the sample API.
type Server struct {
	settings       Settings
	logger         *slog.Logger
	recorder       *metrics.Recorder
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer

	engine     *gin.Engine
	dispatcher *apierrors.Dispatcher
	validator  *validation.Validator
}

// New builds the server. It fails when a form carries a rule the envelope
// cannot report or a setting is invalid.
func New(settings Settings, opts ...Option) (*Server, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	s := &Server{settings: settings}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracerProvider == nil {
		s.tracerProvider = otel.GetTracerProvider()
	}
	s.tracer = s.tracerProvider.Tracer(tracerName)

	v, err := validation.New(validation.WithTypes(forms...))
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}
	s.validator = v

	ids, err := apierrors.IDGeneratorByName(settings.ResponseID)
	if err != nil {
		return nil, err
	}
	dopts := []apierrors.Option{
		apierrors.WithLogger(s.logger),
		apierrors.WithIDGenerator(ids),
		apierrors.WithNotFoundMessage(settings.NotFoundMessage),
	}
	if s.recorder != nil {
		dopts = append(dopts, apierrors.WithRecorder(s.recorder))
	}
	s.dispatcher = apierrors.NewDispatcher(dopts...)

	s.engine = gin.New()
	s.engine.Use(s.traceRequests())
	ginerr.Install(s.engine, s.dispatcher)
	if err = s.mountMetrics(); err != nil {
		return nil, err
	}
	s.routes()

	return s, nil
}

// Dispatcher returns the error formatter shared by every endpoint.
func (s *Server) Dispatcher() *apierrors.Dispatcher {
	return s.dispatcher
}

// Handler returns the API wrapped in request ids, panic recovery and, with
// a recorder, request metrics.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.engine
	if s.recorder != nil {
		h = metrics.Middleware(s.recorder, metrics.WithExcludePaths(s.settings.Metrics.Path))(h)
	}
	h = recovery.New(s.dispatcher, recovery.WithLogger(s.logger))(h)

	return requestid.New()(h)
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.settings.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.settings.Address, err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down within the
// configured timeout. The recorder is shut down with the server.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "server started", "address", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "server shutting down", "reason", ctx.Err())
	}

	// ctx is already done; the shutdown gets its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.settings.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if s.recorder != nil {
		if err := s.recorder.Shutdown(shutdownCtx); err != nil {
			s.logger.WarnContext(shutdownCtx, "metrics shutdown failed", "error", err)
		}
	}
	s.logger.InfoContext(shutdownCtx, "server stopped")

	return nil
}

func (s *Server) mountMetrics() error {
	if !s.settings.Metrics.Enabled || s.recorder == nil {
		return nil
	}
	h, err := s.recorder.Handler()
	if err != nil {
		return fmt.Errorf("failed to mount metrics endpoint: %w", err)
	}
	s.engine.GET(s.settings.Metrics.Path, gin.WrapH(h))

	return nil
}

// traceRequests starts a server span per request and records the final
// status on it.
func (s *Server) traceRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx, span := s.tracer.Start(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		)
		if id := requestid.Get(c.Request.Context()); id != "" {
			span.SetAttributes(attribute.String("http.request.id", id))
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
