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

package errors

import (
	"log/slog"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. System failures are logged at error level,
// everything else at debug level. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRecorder sets a Recorder notified of every envelope.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithIDGenerator sets the response id generator. The default is UUID.
func WithIDGenerator(gen IDGenerator) Option {
	return func(d *Dispatcher) {
		if gen != nil {
			d.newID = gen
		}
	}
}

// WithStatusResolver sets a resolver consulted before ErrorType and the
// kind defaults.
func WithStatusResolver(fn StatusResolver) Option {
	return func(d *Dispatcher) {
		d.resolveStatus = fn
	}
}

// WithNotFoundMessage sets the message of the ResourceNotFound envelope.
func WithNotFoundMessage(msg string) Option {
	return func(d *Dispatcher) {
		if msg != "" {
			d.notFoundMessage = msg
		}
	}
}
