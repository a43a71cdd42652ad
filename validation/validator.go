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
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates request bodies and parameters.
//
// Use [New] or [MustNew] to create one. A Validator is safe for concurrent
// use by multiple goroutines.
//
// Example:
//
//	validator := validation.MustNew(
//	    validation.WithTypes(CreateUser{}),
//	    validation.WithMaxErrors(10),
//	)
//
//	err := validator.Struct(ctx, &user)
type Validator struct {
	cfg *config

	// Tag validator (go-playground/validator)
	tags *validator.Validate

	// Compiled JSON schemas by id
	schemas   map[string]*jsonschema.Schema
	schemasMu sync.RWMutex
}

// New creates a [Validator] with the given options.
// New returns an error if configuration is invalid or a type registered
// with [WithTypes] uses a rule that cannot be reported.
//
// Example:
//
//	validator, err := validation.New(validation.WithTypes(Form{}))
//	if err != nil {
//	    return fmt.Errorf("failed to create validator: %w", err)
//	}
func New(opts ...Option) (*Validator, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	v := &Validator{
		cfg:     cfg,
		schemas: make(map[string]*jsonschema.Schema),
	}

	if err := v.initTagValidator(); err != nil {
		return nil, fmt.Errorf("initialize tag validator: %w", err)
	}

	var errs []error
	for _, t := range cfg.types {
		if err := checkType(t); err != nil {
			errs = append(errs, fmt.Errorf("type %s: %w", t, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return v, nil
}

// MustNew creates a [Validator] with the given options.
// Panics if configuration is invalid.
//
// Use in main() or init() where panic on startup is acceptable.
func MustNew(opts ...Option) *Validator {
	v, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("validation.MustNew: %v", err))
	}

	return v
}

// Engine returns the underlying go-playground validator.
func (v *Validator) Engine() *validator.Validate {
	return v.tags
}

// initTagValidator creates the go-playground/validator instance.
func (v *Validator) initTagValidator() error {
	v.tags = validator.New(validator.WithRequiredStructEnabled())

	// Use json tags as field names so violations carry wire names
	v.tags.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "-" {
			return ""
		}
		if idx := strings.Index(name, ","); idx != -1 {
			name = name[:idx]
		}
		if name == "" {
			return fld.Name
		}

		return name
	})

	builtins := []struct {
		name string
		fn   validator.Func
	}{
		{"notblank", validators.NotBlank},
		{"length", lengthRule},
		{"size", sizeRule},
	}
	for _, b := range builtins {
		if err := v.tags.RegisterValidation(b.name, b.fn); err != nil {
			return fmt.Errorf("register %s validator: %w", b.name, err)
		}
	}

	return nil
}
