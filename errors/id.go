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
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator returns a fresh response id.
type IDGenerator func() string

// UUID returns a random (version 4) UUID.
func UUID() string {
	return uuid.NewString()
}

// ULID returns a lexicographically sortable ULID.
func ULID() string {
	return ulid.Make().String()
}

// IDGeneratorByName returns the generator registered under name:
// "uuid" or "ulid".
func IDGeneratorByName(name string) (IDGenerator, error) {
	switch name {
	case "", "uuid":
		return UUID, nil
	case "ulid":
		return ULID, nil
	default:
		return nil, fmt.Errorf("unknown response id generator %q", name)
	}
}
