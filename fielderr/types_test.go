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

package fielderr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rule string
		want Type
	}{
		{"required", Required},
		{"notblank", NotBlank},
		{"length", Length},
		{"size", Size},
		{"max", Max},
		{"email", Email},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			t.Parallel()
			got, err := LookupType(tt.rule)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupType_Unknown(t *testing.T) {
	t.Parallel()

	_, err := LookupType("min")
	require.ErrorIs(t, err, ErrUnknownRule)
	assert.Contains(t, err.Error(), `"min"`)
}

func TestCheckRules(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckRules(Rules()...))
	require.NoError(t, CheckRules())

	err := CheckRules("required", "uuid", "min", "uuid")
	require.ErrorIs(t, err, ErrUnknownRule)
	assert.Contains(t, err.Error(), `"uuid"`)
	assert.Contains(t, err.Error(), `"min"`)
	assert.NotContains(t, err.Error(), `"required"`)
}

func TestRules_Sorted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"email", "length", "max", "notblank", "required", "size"}, Rules())
}
