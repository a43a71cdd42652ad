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


package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable colored logs.
	ConsoleHandler HandlerType = "console"
)

// Level represents log level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// ParseLevel maps a level name (debug, info, warn, error) to a [Level].
// Matching is case-insensitive; "warning" is accepted as an alias of warn.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// Logger owns a configured [slog.Logger] and its adjustable level.
//
// Thread-safety: All methods are safe for concurrent use.
type Logger struct {
	handlerType    HandlerType
	output         io.Writer
	level          slog.LevelVar
	initialLevel   Level
	serviceName    string
	serviceVersion string
	addSource      bool
	replaceAttr    func(groups []string, a slog.Attr) slog.Attr
	registerGlobal bool

	logger *slog.Logger
}

// Option is a functional option for configuring the logger.
type Option func(*Logger)

func defaultLogger() *Logger {
	return &Logger{
		handlerType:  JSONHandler,
		output:       os.Stdout,
		initialLevel: LevelInfo,
	}
}

// New creates a new [Logger].
//
// By default, this function does NOT set the global slog default logger.
// Use WithGlobalLogger() to register it as the global default.
func New(opts ...Option) (*Logger, error) {
	l := defaultLogger()
	for _, opt := range opts {
		opt(l)
	}

	if l.output == nil {
		return nil, fmt.Errorf("invalid configuration: %w", ErrNilOutput)
	}
	l.level.Set(l.initialLevel)

	var handler slog.Handler
	switch l.handlerType {
	case JSONHandler:
		handler = slog.NewJSONHandler(l.output, l.handlerOptions())
	case TextHandler:
		handler = slog.NewTextHandler(l.output, l.handlerOptions())
	case ConsoleHandler:
		handler = newConsoleHandler(l.output, &l.level, l.addSource)
	default:
		return nil, fmt.Errorf("invalid configuration: %w: %s", ErrInvalidHandler, l.handlerType)
	}

	sl := slog.New(newTraceHandler(handler))
	if l.serviceName != "" {
		sl = sl.With("service", l.serviceName)
	}
	if l.serviceVersion != "" {
		sl = sl.With("version", l.serviceVersion)
	}
	l.logger = sl

	if l.registerGlobal {
		slog.SetDefault(sl)
	}
	return l, nil
}

// MustNew creates a new [Logger] or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

func (l *Logger) handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: l.buildReplaceAttr(),
	}
}

// buildReplaceAttr creates the attribute replacer function.
func (l *Logger) buildReplaceAttr() func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		switch a.Key {
		case "password", "token", "secret", "api_key", "authorization":
			return slog.String(a.Key, "***REDACTED***")
		}
		if l.replaceAttr != nil {
			return l.replaceAttr(groups, a)
		}
		return a
	}
}

// Logger returns the underlying slog.Logger.
func (l *Logger) Logger() *slog.Logger {
	return l.logger
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level)
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// ServiceName returns the configured service name.
func (l *Logger) ServiceName() string {
	return l.serviceName
}
