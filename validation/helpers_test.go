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


//go:build !integration

package validation

// Fixtures shared by the tests, shaped like the sample API forms.

type testNest struct {
	ID    int      `json:"id" validate:"max=4"`
	Value string   `json:"value" validate:"notblank"`
	List  []string `json:"list" validate:"size=:2,dive,notblank"`
}

type testForm struct {
	Name     string   `json:"name" validate:"notblank,length=1:10"`
	Email    string   `json:"email" validate:"omitempty,email"`
	HogeList []int    `json:"hogeList" validate:"size=1:3,dive,max=3"`
	Nest     testNest `json:"nest"`
}

func validForm() testForm {
	return testForm{
		Name:     "hoge",
		Email:    "hoge@example.com",
		HogeList: []int{1, 2, 3},
		Nest:     testNest{ID: 1, Value: "v", List: []string{"a"}},
	}
}

type ruleOf struct {
	Field string
	Rule  string
}
