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


package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"reflect"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"

	"rivaas.dev/envelope/config/codec"
	"rivaas.dev/envelope/config/source"
)

// Source produces a configuration map.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// Validator is implemented by bindings that check themselves after decoding.
type Validator interface {
	Validate() error
}

// Option configures a [Config].
type Option func(c *Config) error

// Config merges sources, validates the result and binds it to a struct.
//
// Config is safe for concurrent use by multiple goroutines.
type Config struct {
	mu         sync.RWMutex
	values     map[string]any
	sources    []Source
	binding    any
	tagName    string
	schema     *jsonschema.Schema
	validators []func(map[string]any) error
}

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFile loads a file whose format is detected from its extension.
// The path is expanded with os.ExpandEnv.
func WithFile(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		_, d, err := codec.ForPath(path)
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}
		c.sources = append(c.sources, source.NewFile(path, d))
		return nil
	}
}

// WithFileAs loads a file with an explicit format.
func WithFileAs(path string, format codec.Type) Option {
	return func(c *Config) error {
		d, err := codec.Lookup(format)
		if err != nil {
			return NewError("file-source", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewFile(os.ExpandEnv(path), d))
		return nil
	}
}

// WithContent loads in-memory data in the given format.
func WithContent(data []byte, format codec.Type) Option {
	return func(c *Config) error {
		d, err := codec.Lookup(format)
		if err != nil {
			return NewError("content-source", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewContent(data, d))
		return nil
	}
}

// WithEnv loads environment variables starting with prefix.
// See [source.Env] for the key mapping.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewEnv(prefix))
		return nil
	}
}

// WithConsul loads a document stored in Consul. The format is detected from
// the key's extension; a key without an extension is read as a folder.
//
// The option is skipped when CONSUL_HTTP_ADDR is not set, so local runs work
// without a Consul agent.
func WithConsul(key string) Option {
	return func(c *Config) error {
		if os.Getenv("CONSUL_HTTP_ADDR") == "" {
			return nil
		}
		return withConsul(c, os.ExpandEnv(key), nil)
	}
}

// WithConsulKV is WithConsul against an explicit KV client.
func WithConsulKV(key string, kv source.ConsulKV) Option {
	return func(c *Config) error {
		return withConsul(c, key, kv)
	}
}

func withConsul(c *Config, key string, kv source.ConsulKV) error {
	var d codec.Decoder
	if path.Ext(key) != "" {
		var err error
		if _, d, err = codec.ForPath(key); err != nil {
			return NewError("consul-source", "detect-format", err)
		}
	}
	src, err := source.NewConsul(key, d, kv)
	if err != nil {
		return NewError("consul-source", "create-client", err)
	}
	c.sources = append(c.sources, src)
	return nil
}

// WithBinding decodes the merged values into v, which must be a pointer to a
// struct.
func WithBinding(v any) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("binding target cannot be nil")
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
			return errors.New("binding target must be a pointer to a struct")
		}
		c.binding = v
		return nil
	}
}

// WithTag sets the struct tag used for binding (default: "config").
func WithTag(tagName string) Option {
	return func(c *Config) error {
		if tagName == "" {
			return errors.New("tag name cannot be empty")
		}
		c.tagName = tagName
		return nil
	}
}

// WithJSONSchema validates the merged values against schema before binding.
func WithJSONSchema(schema []byte) Option {
	return func(c *Config) error {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
		if err != nil {
			return NewError("json-schema", "parse", err)
		}
		compiler := jsonschema.NewCompiler()
		if err = compiler.AddResource("config.json", doc); err != nil {
			return NewError("json-schema", "add-resource", err)
		}
		if c.schema, err = compiler.Compile("config.json"); err != nil {
			return NewError("json-schema", "compile", err)
		}
		return nil
	}
}

// WithValidator adds a check over the merged values.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		if fn == nil {
			return errors.New("validator cannot be nil")
		}
		c.validators = append(c.validators, fn)
		return nil
	}
}

// New applies options and returns the Config with all option errors joined.
func New(options ...Option) (*Config, error) {
	c := &Config{values: map[string]any{}, tagName: "config"}

	var errs []error
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// MustNew is New that panics on error.
func MustNew(options ...Option) *Config {
	c, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create config: %v", err))
	}
	return c
}

// Load reads every source, merges, validates and binds. The stored values
// and the binding are only replaced when every step succeeds.
func (c *Config) Load(ctx context.Context) error {
	merged := map[string]any{}
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		conf, err := src.Load(ctx)
		if err != nil {
			return NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if err = mergo.Map(&merged, lowerKeys(conf), mergo.WithOverride); err != nil {
			return NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	if c.schema != nil {
		if err := c.schema.Validate(toJSONValue(merged)); err != nil {
			return NewError("json-schema", "validate", err)
		}
	}
	for i, fn := range c.validators {
		if err := fn(merged); err != nil {
			return NewError(fmt.Sprintf("validator[%d]", i), "validate", err)
		}
	}

	var bound any
	if c.binding != nil {
		var err error
		if bound, err = c.decode(merged); err != nil {
			return NewError("binding", "bind", err)
		}
		if v, ok := bound.(Validator); ok {
			if err = v.Validate(); err != nil {
				return NewError("binding", "validate", err)
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = merged
	if bound != nil {
		reflect.ValueOf(c.binding).Elem().Set(reflect.ValueOf(bound).Elem())
	}
	return nil
}

// decode binds values into a fresh instance of the binding type.
func (c *Config) decode(values map[string]any) (any, error) {
	target := reflect.New(reflect.TypeOf(c.binding).Elem()).Interface()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          c.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err = dec.Decode(values); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err = applyDefaults(target); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return target, nil
}

// Get returns the value at a dot separated, case-insensitive path, or nil.
func (c *Config) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var cur any = c.values
	for _, seg := range strings.Split(strings.ToLower(key), ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = m[seg]; !ok {
			return nil
		}
	}
	return cur
}

// String returns the value at key converted with cast, or "".
func (c *Config) String(key string) string {
	return cast.ToString(c.Get(key))
}

// Int returns the value at key converted with cast, or 0.
func (c *Config) Int(key string) int {
	return cast.ToInt(c.Get(key))
}

// Bool returns the value at key converted with cast, or false.
func (c *Config) Bool(key string) bool {
	return cast.ToBool(c.Get(key))
}

// Duration returns the value at key converted with cast, or 0.
func (c *Config) Duration(key string) time.Duration {
	return cast.ToDuration(c.Get(key))
}

func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = lowerKeys(nested)
		}
		out[strings.ToLower(k)] = v
	}
	return out
}

// toJSONValue converts decoded values into the shapes jsonschema accepts.
// TOML and YAML decoders produce concrete slice and integer types the
// validator does not understand.
func toJSONValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = toJSONValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toJSONValue(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toJSONValue(e)
		}
		return out
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32:
		return cast.ToFloat64(t)
	default:
		return v
	}
}
