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

// Form is the single-object payload of /test/form_error_test.
type Form struct {
	Name     string `json:"name" validate:"notblank,length=1:10"`
	Email    string `json:"email" validate:"omitempty,email"`
	HogeList []int  `json:"hogeList" validate:"size=1:3,dive,max=3"`
	Nest     *Nest  `json:"nest" validate:"required"`
}

// Nest is the nested object of a [Form].
type Nest struct {
	ID    *int     `json:"id" validate:"required,max=4"`
	Value string   `json:"value" validate:"notblank"`
	List  []string `json:"list" validate:"size=:2,dive,notblank"`
}

// NestedOverForm carries a [Nest] one level deeper than field paths may go.
type NestedOverForm struct {
	NestedOver *NestedOver `json:"nestedOver" validate:"required"`
}

// NestedOver wraps a [Nest].
type NestedOver struct {
	Nest *Nest `json:"nest" validate:"required"`
}

// MockForm is the body of PUT /test/param_error_test/:id.
type MockForm struct {
	MockID string `json:"mockId" validate:"notblank"`
}

// forms lists the payload types checked when the server starts.
var forms = []any{Form{}, NestedOverForm{}, MockForm{}}
