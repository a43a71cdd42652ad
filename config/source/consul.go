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


package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/consul/api"

	"rivaas.dev/envelope/config/codec"
)

// ConsulKV is the part of the Consul KV API the source uses.
// *api.KV satisfies it.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
	List(prefix string, q *api.QueryOptions) (api.KVPairs, *api.QueryMeta, error)
}

// Consul loads configuration from Consul's key-value store.
//
// With a decoder, the value stored at key is a whole document. Without one,
// key is treated as a folder: every key below it becomes a nested entry,
// split on "/", holding the raw value as a string.
//
// The client is configured from CONSUL_HTTP_ADDR and CONSUL_HTTP_TOKEN.
type Consul struct {
	kv        ConsulKV
	key       string
	decoder   codec.Decoder
	lastIndex uint64
}

// NewConsul creates a Consul source. If kv is nil, a client built from the
// default configuration is used.
func NewConsul(key string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}
	return &Consul{kv: kv, key: key, decoder: decoder}, nil
}

// LastIndex returns the Consul index observed by the latest Load.
func (c *Consul) LastIndex() uint64 {
	return c.lastIndex
}

// Load fetches the key (or folder). A missing key yields an empty map.
func (c *Consul) Load(ctx context.Context) (map[string]any, error) {
	q := (&api.QueryOptions{}).WithContext(ctx)
	if c.decoder == nil {
		return c.loadFolder(q)
	}

	pair, meta, err := c.kv.Get(c.key, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get consul key %q: %w", c.key, err)
	}
	if meta != nil {
		c.lastIndex = meta.LastIndex
	}
	if pair == nil {
		return map[string]any{}, nil
	}

	var conf map[string]any
	if err = c.decoder.Decode(pair.Value, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode consul key %q: %w", c.key, err)
	}
	return conf, nil
}

func (c *Consul) loadFolder(q *api.QueryOptions) (map[string]any, error) {
	prefix := strings.TrimSuffix(c.key, "/") + "/"
	pairs, meta, err := c.kv.List(prefix, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list consul prefix %q: %w", prefix, err)
	}
	if meta != nil {
		c.lastIndex = meta.LastIndex
	}

	conf := map[string]any{}
	for _, pair := range pairs {
		rel := strings.TrimPrefix(pair.Key, prefix)
		// Folder markers end with "/" and carry no value.
		if rel == "" || strings.HasSuffix(rel, "/") {
			continue
		}
		insert(conf, strings.Split(strings.ToLower(rel), "/"), string(pair.Value))
	}
	return conf, nil
}

func insert(m map[string]any, path []string, value string) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
