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


package ginerr

import (
	"context"
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/validation"
)

// StructValidator plugs a [validation.Validator] into gin's binding
// pipeline:
//
//	binding.Validator = ginerr.NewStructValidator(v)
//
// Structs are validated as a single form; slices and arrays as record
// collections.
type StructValidator struct {
	v *validation.Validator
}

var _ binding.StructValidator = (*StructValidator)(nil)

// NewStructValidator wraps v.
func NewStructValidator(v *validation.Validator) *StructValidator {
	return &StructValidator{v: v}
}

// ValidateStruct implements binding.StructValidator.
func (s *StructValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		return s.v.Struct(context.Background(), val.Interface())
	case reflect.Slice, reflect.Array:
		return s.v.Records(context.Background(), val.Interface())
	default:
		return nil
	}
}

// Engine implements binding.StructValidator.
func (s *StructValidator) Engine() any {
	return s.v.Engine()
}

// BindJSON decodes the request body into obj and validates it with v.
// Decoding failures come back with status 400 and keep the decoder's
// message; validation failures come back as *apierrors.BodyError.
func BindJSON(c *gin.Context, v *validation.Validator, obj any) error {
	if err := c.ShouldBindWith(obj, binding.JSON); err != nil {
		var body *apierrors.BodyError
		if errors.As(err, &body) {
			return err
		}
		return apierrors.WithStatus(err, http.StatusBadRequest)
	}

	target := reflect.ValueOf(obj)
	for target.Kind() == reflect.Pointer && !target.IsNil() {
		target = target.Elem()
	}
	if target.Kind() == reflect.Slice || target.Kind() == reflect.Array {
		return v.Records(c.Request.Context(), target.Interface())
	}
	return v.Struct(c.Request.Context(), obj)
}
