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


package validation_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/validation"
)

type signup struct {
	Name  string `json:"name" validate:"notblank,length=1:10"`
	Email string `json:"email" validate:"required,email"`
}

func ExampleValidator_Struct() {
	v := validation.MustNew(validation.WithTypes(signup{}))

	err := v.Struct(context.Background(), &signup{Name: "hoge", Email: "bad"})

	var body *apierrors.BodyError
	if errors.As(err, &body) {
		for _, violation := range body.Violations {
			fmt.Printf("%s %s: %s\n", violation.Field, violation.Rule, violation.Message)
		}
	}
	// Output: email email: must be a well-formed email address
}

func ExampleValidator_Params() {
	v := validation.MustNew()
	req := httptest.NewRequest(http.MethodGet, "/test/param_error_test", nil)

	err := v.Params(req.Context(), validation.QueryParam(req, "mail", "required,email"))
	fmt.Println(apierrors.Classify(err), err)
	// Output: missing_param Required request parameter 'mail' is not present
}
