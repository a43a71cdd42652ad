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


// Command envelope-server runs the sample API.
//
// Settings come from an optional file, Consul KV when CONSUL_HTTP_ADDR is
// set, and ENVELOPE_ environment variables, in that order:
//
//	envelope-server -config envelope.yaml
//	ENVELOPE_LOG__LEVEL=debug ENVELOPE_METRICS__ENABLED=true envelope-server
//
// SIGHUP reloads the settings and applies the new log level.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"rivaas.dev/envelope/config"
	"rivaas.dev/envelope/logging"
	"rivaas.dev/envelope/metrics"
	"rivaas.dev/envelope/sample"
)

const serviceName = "envelope-server"

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a yaml, toml, json or .env settings file")
	consulKey := flag.String("consul-key", "envelope/settings.yaml", "Consul KV key holding the settings")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := sample.DefaultSettings()
	opts := []config.Option{config.WithJSONSchema(sample.SettingsSchema)}
	if *configPath != "" {
		opts = append(opts, config.WithFile(*configPath))
	}
	opts = append(opts,
		config.WithConsul(*consulKey),
		config.WithEnv("ENVELOPE_"),
		config.WithBinding(&settings),
	)
	cfg, err := config.New(opts...)
	if err != nil {
		return err
	}
	if err = cfg.Load(ctx); err != nil {
		return err
	}

	logger, err := logging.New(append(settings.LoggingOptions(),
		logging.WithServiceName(serviceName),
		logging.WithServiceVersion(version),
		logging.WithGlobalLogger(),
	)...)
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	serverOpts := []sample.Option{
		sample.WithLogger(logger.Logger()),
		sample.WithTracerProvider(tp),
	}
	if settings.Metrics.Enabled {
		recorder, err := metrics.New(
			metrics.WithServiceName(serviceName),
			metrics.WithServiceVersion(version),
		)
		if err != nil {
			return err
		}
		serverOpts = append(serverOpts, sample.WithRecorder(recorder))
	}

	gin.SetMode(gin.ReleaseMode)
	server, err := sample.New(settings, serverOpts...)
	if err != nil {
		return err
	}

	go reloadOnHangup(ctx, cfg, &settings, logger)

	return server.Run(ctx)
}

// reloadOnHangup reloads the settings on SIGHUP. Only the log level takes
// effect without a restart.
func reloadOnHangup(ctx context.Context, cfg *config.Config, settings *sample.Settings, logger *logging.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}

		if err := cfg.Load(ctx); err != nil {
			logger.Logger().ErrorContext(ctx, "settings reload failed", "error", err)
			continue
		}
		// Validate accepted the level during Load.
		level, _ := logging.ParseLevel(settings.Log.Level)
		logger.SetLevel(level)
		logger.Logger().InfoContext(ctx, "settings reloaded", "log_level", level.String())
	}
}
