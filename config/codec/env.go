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


package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// TypeEnv identifies newline separated KEY=value payloads.
const TypeEnv Type = "env"

// NestingSeparator splits an environment key into nested map keys.
// Single underscores stay part of the key so that LOG__LEVEL and
// NOT_FOUND_MESSAGE map to log.level and not_found_message.
const NestingSeparator = "__"

func init() {
	Register(TypeEnv, Env{}, ".env")
}

// Env decodes KEY=value lines into a nested map[string]any.
// Keys are lowercased; blank lines and lines starting with # are skipped.
type Env struct{}

func (Env) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("env decode: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		setNested(conf, splitKey(key), strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("env decode: %w", err)
	}

	*ptr = conf
	return nil
}

func splitKey(key string) []string {
	var parts []string
	for _, p := range strings.Split(strings.ToLower(strings.TrimSpace(key)), NestingSeparator) {
		if p = strings.Trim(p, "_"); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// setNested stores value under path, replacing scalars that stand in the way
// of a deeper key.
func setNested(m map[string]any, path []string, value any) {
	if len(path) == 0 {
		return
	}
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
