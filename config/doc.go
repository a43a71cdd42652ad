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


// Package config loads layered configuration and binds it to a struct.
//
// Sources are applied in the order they are given; later sources override
// earlier ones key by key. After merging, the values are checked against an
// optional JSON Schema, passed to custom validators, decoded into the
// binding struct (honoring `default` tags) and finally the binding's own
// Validate method runs, if it has one.
//
//	var s Settings
//	cfg := config.MustNew(
//	    config.WithFile("envelope.yaml"),
//	    config.WithConsul("envelope/config.yaml"),
//	    config.WithEnv("ENVELOPE_"),
//	    config.WithBinding(&s),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//
// Keys are case-insensitive.
package config
