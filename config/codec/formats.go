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
	"encoding/json"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Registered structured formats.
const (
	TypeYAML Type = "yaml"
	TypeTOML Type = "toml"
	TypeJSON Type = "json"
)

func init() {
	Register(TypeYAML, YAML{}, ".yaml", ".yml")
	Register(TypeTOML, TOML{}, ".toml")
	Register(TypeJSON, JSON{}, ".json")
}

// YAML decodes YAML documents with goccy/go-yaml.
type YAML struct{}

func (YAML) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// TOML decodes TOML documents with BurntSushi/toml.
type TOML struct{}

func (TOML) Decode(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

// JSON decodes JSON documents.
type JSON struct{}

func (JSON) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
