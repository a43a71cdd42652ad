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


// Package codec decodes configuration payloads into generic maps.
//
// Decoders are registered by [Type] and looked up by name or by file
// extension. YAML, TOML, JSON and environment variable payloads are
// registered on import.
package codec

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Type represents a codec type identifier.
type Type string

// Decoder converts encoded byte representations into Go values.
// Implementations must be safe for concurrent use.
type Decoder interface {
	// Decode converts the encoded data into the value pointed to by v.
	Decode(data []byte, v any) error
}

var (
	mu         sync.RWMutex
	decoders   = map[Type]Decoder{}
	extensions = map[string]Type{}
)

// Register makes a decoder available under name and, optionally, for the
// given file extensions (with the leading dot).
func Register(name Type, d Decoder, exts ...string) {
	mu.Lock()
	defer mu.Unlock()

	decoders[name] = d
	for _, ext := range exts {
		extensions[strings.ToLower(ext)] = name
	}
}

// Lookup returns the decoder registered under name.
func Lookup(name Type) (Decoder, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("decoder not found for type: %s", name)
	}
	return d, nil
}

// ForPath picks a decoder from the extension of path.
func ForPath(path string) (Type, Decoder, error) {
	ext := strings.ToLower(filepath.Ext(path))

	mu.RLock()
	name, ok := extensions[ext]
	mu.RUnlock()
	if !ok {
		return "", nil, fmt.Errorf("cannot detect format from extension %q; known extensions: %s", ext, strings.Join(Extensions(), ", "))
	}
	d, err := Lookup(name)
	return name, d, err
}

// Extensions lists the registered file extensions in sorted order.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
