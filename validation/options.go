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

package validation

import (
	"errors"
	"maps"
	"reflect"
)

// MessageFunc generates a message for a parameterized rule.
//
// The function receives the rule parameter (e.g., "1:10" for `length=1:10`)
// and the field's reflect.Kind.
type MessageFunc func(param string, kind reflect.Kind) string

// config holds the configuration of a Validator.
type config struct {
	maxErrors    int
	types        []reflect.Type
	messages     map[string]string      // rule -> static message
	messageFuncs map[string]MessageFunc // rule -> dynamic message function
}

// validate checks the configuration for errors.
func (c *config) validate() error {
	if c.maxErrors < 0 {
		return errors.New("maxErrors must be non-negative")
	}

	return nil
}

// Option is a functional option for configuring a Validator.
type Option func(*config)

// WithMaxErrors limits the number of violations reported per call.
// Zero means unlimited.
//
// Example:
//
//	validator := validation.MustNew(validation.WithMaxErrors(20))
func WithMaxErrors(maxErrors int) Option {
	return func(c *config) {
		c.maxErrors = maxErrors
	}
}

// WithTypes registers struct types whose validation tags are checked when
// the Validator is created. Values and pointers are accepted.
//
// Example:
//
//	validator, err := validation.New(validation.WithTypes(CreateUser{}, &UpdateUser{}))
func WithTypes(types ...any) Option {
	return func(c *config) {
		for _, t := range types {
			if t == nil {
				continue
			}
			c.types = append(c.types, reflect.TypeOf(t))
		}
	}
}

// WithMessages sets static messages per rule, overriding the defaults.
//
// Example:
//
//	validator := validation.MustNew(
//	    validation.WithMessages(map[string]string{
//	        "notblank": "cannot be empty",
//	        "email":    "invalid email format",
//	    }),
//	)
func WithMessages(messages map[string]string) Option {
	return func(c *config) {
		if c.messages == nil {
			c.messages = make(map[string]string)
		}
		maps.Copy(c.messages, messages)
	}
}

// WithMessageFunc sets a dynamic message generator for a parameterized rule.
//
// Example:
//
//	validator := validation.MustNew(
//	    validation.WithMessageFunc("max", func(param string, _ reflect.Kind) string {
//	        return "at most " + param
//	    }),
//	)
func WithMessageFunc(rule string, fn MessageFunc) Option {
	return func(c *config) {
		if c.messageFuncs == nil {
			c.messageFuncs = make(map[string]MessageFunc)
		}
		c.messageFuncs[rule] = fn
	}
}
