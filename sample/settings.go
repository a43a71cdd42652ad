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
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/logging"
)

// SettingsSchema is the JSON Schema of the raw settings document.
//
//go:embed settings.schema.json
var SettingsSchema []byte

// Settings configures the sample server. Field tags follow the config
// package: `config` names the key and `default` fills zero values.
type Settings struct {
	Address         string          `config:"address" default:":8080"`
	ShutdownTimeout time.Duration   `config:"shutdown_timeout" default:"10s"`
	NotFoundMessage string          `config:"not_found_message" default:"Not Found"`
	ResponseID      string          `config:"response_id" default:"uuid"`
	Log             LogSettings     `config:"log"`
	Metrics         MetricsSettings `config:"metrics"`
}

// LogSettings selects the log level and handler.
type LogSettings struct {
	Level  string `config:"level" default:"info"`
	Format string `config:"format" default:"json"`
}

// MetricsSettings controls the Prometheus endpoint. Metrics are off unless
// enabled is set.
type MetricsSettings struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path" default:"/metrics"`
}

// DefaultSettings returns the settings used when no source sets a key.
func DefaultSettings() Settings {
	return Settings{
		Address:         ":8080",
		ShutdownTimeout: 10 * time.Second,
		NotFoundMessage: apierrors.DefaultNotFoundMessage,
		ResponseID:      "uuid",
		Log:             LogSettings{Level: "info", Format: "json"},
		Metrics:         MetricsSettings{Path: "/metrics"},
	}
}

// Validate reports every invalid setting.
func (s *Settings) Validate() error {
	var errs []error
	if s.Address == "" {
		errs = append(errs, errors.New("address must not be empty"))
	}
	if s.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must be positive, got %s", s.ShutdownTimeout))
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch logging.HandlerType(s.Log.Format) {
	case logging.JSONHandler, logging.TextHandler, logging.ConsoleHandler:
	default:
		errs = append(errs, fmt.Errorf("log.format: %w: %q", logging.ErrInvalidHandler, s.Log.Format))
	}
	if _, err := apierrors.IDGeneratorByName(s.ResponseID); err != nil {
		errs = append(errs, fmt.Errorf("response_id: %w", err))
	}
	if s.Metrics.Enabled && !strings.HasPrefix(s.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/', got %q", s.Metrics.Path))
	}

	return errors.Join(errs...)
}

// LoggingOptions returns the logging options selected by s.
// Validate s first; an unknown level falls back to info.
func (s *Settings) LoggingOptions() []logging.Option {
	level, _ := logging.ParseLevel(s.Log.Level)

	return []logging.Option{
		logging.WithHandlerType(logging.HandlerType(s.Log.Format)),
		logging.WithLevel(level),
	}
}
