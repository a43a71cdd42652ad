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
	"fmt"
	"reflect"
)

// message returns the message for a violated rule: a MessageFunc, then a
// static message, then the default.
func (v *Validator) message(rule, param string, kind reflect.Kind) string {
	if fn, ok := v.cfg.messageFuncs[rule]; ok {
		return fn(param, kind)
	}
	if msg, ok := v.cfg.messages[rule]; ok {
		return msg
	}

	return defaultMessage(rule, param)
}

func defaultMessage(rule, param string) string {
	switch rule {
	case "required":
		return "must not be null"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "max":
		return fmt.Sprintf("must be less than or equal to %s", param)
	case "length":
		return "length " + rangeText(param)
	case "size":
		return "size " + rangeText(param)
	default:
		return fmt.Sprintf("failed validation (%s)", rule)
	}
}

func rangeText(param string) string {
	lo, hi, err := parseRange(param)
	switch {
	case err != nil:
		return "is out of range"
	case hi < 0:
		return fmt.Sprintf("must be at least %d", lo)
	default:
		return fmt.Sprintf("must be between %d and %d", lo, hi)
	}
}
