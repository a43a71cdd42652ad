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

// Package validation checks request bodies and parameters and reports
// violations as failures understood by the error envelope.
//
// # Getting Started
//
// Tag fields with go-playground/validator rules. Only the rules known to
// package fielderr may be used: required, notblank, length, size, max, email.
//
//	type Form struct {
//		Name     string `json:"name" validate:"notblank,length=1:10"`
//		Email    string `json:"email" validate:"omitempty,email"`
//		HogeList []int  `json:"hogeList" validate:"size=1:3,dive,max=3"`
//	}
//
//	v := validation.MustNew(validation.WithTypes(Form{}))
//
//	if err := v.Struct(ctx, &form); err != nil {
//		return err // *errors.BodyError
//	}
//
// [WithTypes] walks the tags of the given types when the Validator is
// created, so a rule missing from the table fails at startup rather than on
// the first invalid request.
//
// # Collections
//
// [Validator.Records] validates every element of a slice; violations carry
// the element position as a "[i]." prefix, which becomes the record index of
// the envelope.
//
// # Parameters
//
// [Validator.Params] validates path and query parameters. A parameter whose
// rules include required and that is absent yields *errors.MissingParamError;
// other violations yield *errors.ParamError.
//
// # JSON Schema
//
// [Validator.RegisterSchema] compiles a schema once; [Validator.ValidateJSON]
// validates raw documents against it. Schemas may only use keywords that map
// onto the rule table.
//
// # Thread Safety
//
// A Validator is safe for concurrent use by multiple goroutines.
package validation
