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

package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"rivaas.dev/envelope/config/codec"
)

func TestFile_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	conf, err := NewFile(path, codec.YAML{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"level": "warn"}, conf["log"])
}

func TestFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     *File
		wantErr string
	}{
		{
			name:    "missing file",
			src:     NewFile(filepath.Join(t.TempDir(), "absent.json"), codec.JSON{}),
			wantErr: "failed to read file",
		},
		{
			name:    "malformed content",
			src:     NewContent([]byte("{"), codec.JSON{}),
			wantErr: "failed to decode content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.src.Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFile_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewContent([]byte("{}"), codec.JSON{}).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEnv_Load(t *testing.T) {
	t.Parallel()

	environ := func() []string {
		return []string{
			"ENVELOPE_LOG__LEVEL=debug",
			"ENVELOPE_NOT_FOUND_MESSAGE=gone",
			"OTHER_VALUE=ignored",
			"PATH=/usr/bin",
		}
	}

	conf, err := NewEnviron("ENVELOPE_", environ).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"log":               map[string]any{"level": "debug"},
		"not_found_message": "gone",
	}, conf)
}

type fakeKV struct {
	pairs map[string][]byte
	index uint64
	err   error
}

func (f *fakeKV) Get(key string, _ *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	meta := &api.QueryMeta{LastIndex: f.index}
	v, ok := f.pairs[key]
	if !ok {
		return nil, meta, nil
	}
	return &api.KVPair{Key: key, Value: v}, meta, nil
}

func (f *fakeKV) List(prefix string, _ *api.QueryOptions) (api.KVPairs, *api.QueryMeta, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	var out api.KVPairs
	for k, v := range f.pairs {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, &api.KVPair{Key: k, Value: v})
		}
	}
	return out, &api.QueryMeta{LastIndex: f.index}, nil
}

type ConsulSourceTestSuite struct {
	suite.Suite
	kv *fakeKV
}

func TestConsulSourceTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ConsulSourceTestSuite))
}

func (s *ConsulSourceTestSuite) SetupTest() {
	s.kv = &fakeKV{
		index: 42,
		pairs: map[string][]byte{
			"envelope/config.json":          []byte(`{"log":{"level":"error"}}`),
			"envelope/broken.json":          []byte(`{"log":`),
			"envelope/settings/":            nil,
			"envelope/settings/Log/Level":   []byte("debug"),
			"envelope/settings/server/addr": []byte(":7070"),
		},
	}
}

func (s *ConsulSourceTestSuite) TestLoad_Document() {
	src, err := NewConsul("envelope/config.json", codec.JSON{}, s.kv)
	s.Require().NoError(err)

	conf, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Equal(map[string]any{"level": "error"}, conf["log"])
	s.Equal(uint64(42), src.LastIndex())
}

func (s *ConsulSourceTestSuite) TestLoad_DocumentAbsent() {
	src, err := NewConsul("envelope/absent.json", codec.JSON{}, s.kv)
	s.Require().NoError(err)

	conf, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Empty(conf)
}

func (s *ConsulSourceTestSuite) TestLoad_DecodeError() {
	src, err := NewConsul("envelope/broken.json", codec.JSON{}, s.kv)
	s.Require().NoError(err)

	_, err = src.Load(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "failed to decode consul key")
}

func (s *ConsulSourceTestSuite) TestLoad_Folder() {
	src, err := NewConsul("envelope/settings", nil, s.kv)
	s.Require().NoError(err)

	conf, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Equal(map[string]any{
		"log":    map[string]any{"level": "debug"},
		"server": map[string]any{"addr": ":7070"},
	}, conf)
}

func (s *ConsulSourceTestSuite) TestLoad_QueryError() {
	s.kv.err = errors.New("connection refused")

	src, err := NewConsul("envelope/config.json", codec.JSON{}, s.kv)
	s.Require().NoError(err)
	_, err = src.Load(context.Background())
	s.Require().ErrorIs(err, s.kv.err)
}
