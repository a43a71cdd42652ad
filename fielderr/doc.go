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

// Package fielderr normalizes raw validation violations into the error tree
// carried by an invalid-request envelope.
//
// Validation engines report violations with heterogeneous field identifiers:
// plain names ("name"), dotted paths ("nest.id"), list elements ("hogeList[2]"),
// records inside a submitted collection ("[1].email") and, for collections that
// had to be wrapped in a carrier field, a "wrapListFields" prefix. The package
// parses those identifiers and folds the violations into RecordError values,
// one per record, each holding one FieldError per field and, for list-valued
// fields, one ElementError per violating element.
//
// # Rule Types
//
// Rule identifiers are resolved through a closed table (see [Rules]). An
// identifier missing from the table is a configuration error; validators
// should call [CheckRules] at startup so the mismatch never reaches a request.
//
// # Depth Limit
//
// A field path deeper than [MaxDepth] segments is not reported as such. When a
// request has at least one, the whole result collapses into a single record
// listing each offending path with the ReqBodyNestedOver type.
//
// # Example
//
//	records, err := fielderr.Build([]fielderr.Violation{
//		{Field: "name", Rule: "notblank", Message: "must not be blank"},
//		{Field: "hogeList[1]", Rule: "max", Message: "must be less than or equal to 3"},
//	})
//	if err != nil {
//		return err // unknown rule, see CheckRules
//	}
package fielderr
