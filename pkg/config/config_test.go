// Copyright 2025 walteh LLC
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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestLoad(t *testing.T) {
	t.Setenv("PANCAKE_TEST_HOME", "/home/flat")

	tests := []struct {
		name        string
		filename    string
		content     string
		wantErr     bool
		errContains string
		check       func(t *testing.T, f *File)
	}{
		{
			name:     "yaml",
			filename: ".pancake.yaml",
			content: `
output: /tmp/flat
exclude:
  - "*.log"
  - build/
max_size_kb: 64
separator: "--"
jobs: 4
`,
			check: func(t *testing.T, f *File) {
				require.NotNil(t, f.Output)
				assert.Equal(t, "/tmp/flat", *f.Output, "output should match")
				assert.Equal(t, []string{"*.log", "build/"}, f.Exclude, "exclude should match")
				require.NotNil(t, f.MaxSizeKB)
				assert.Equal(t, int64(64), *f.MaxSizeKB)
				assert.Equal(t, "--", *f.Separator)
				assert.Equal(t, 4, *f.Jobs)
				assert.Nil(t, f.IncludeBinary, "unset keys stay nil")
			},
		},
		{
			name:     "yml_empty",
			filename: ".pancake.yml",
			content:  "",
			check: func(t *testing.T, f *File) {
				assert.Empty(t, f.Settings())
			},
		},
		{
			name:     "hcl_with_env",
			filename: ".pancake.hcl",
			content: `
output         = "${env.PANCAKE_TEST_HOME}/out"
exclude        = ["dist", "*.tmp"]
include_binary = true
no_tree        = true
`,
			check: func(t *testing.T, f *File) {
				assert.Equal(t, "/home/flat/out", *f.Output)
				assert.Equal(t, []string{"dist", "*.tmp"}, f.Exclude)
				assert.True(t, *f.IncludeBinary)
				assert.True(t, *f.NoTree)
				assert.Nil(t, f.Jobs)
			},
		},
		{
			name:     "json",
			filename: ".pancake.json",
			content:  `{"use_ignore_file": false, "encoding": "latin1", "tree_command": "/usr/bin/tree"}`,
			check: func(t *testing.T, f *File) {
				assert.False(t, *f.UseIgnoreFile)
				assert.Equal(t, "latin1", *f.Encoding)
				assert.Equal(t, "/usr/bin/tree", *f.TreeCommand)
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    ".pancake.yaml",
			content:     "outptu: /tmp\n",
			wantErr:     true,
			errContains: "outptu",
		},
		{
			name:        "json_unknown_field",
			filename:    ".pancake.json",
			content:     `{"nope": 1}`,
			wantErr:     true,
			errContains: "nope",
		},
		{
			name:        "hcl_syntax_error",
			filename:    ".pancake.hcl",
			content:     `output = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unsupported_extension",
			filename:    ".pancake.toml",
			content:     `output = "x"`,
			wantErr:     true,
			errContains: "no parser",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			f, err := Load(testContext(t), path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, f.Location())
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), ".pancake.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyOnlyOverridesSetKeys(t *testing.T) {
	sep := "+"
	f := &File{Separator: &sep}

	cfg := Default()
	f.Apply(cfg)

	assert.Equal(t, "+", cfg.Separator)
	assert.Equal(t, int64(DefaultMaxSizeKB), cfg.MaxSizeKB, "defaults survive")
	assert.True(t, cfg.UseIgnoreFile)
	assert.Equal(t, map[string]any{KeySeparator: "+"}, f.Settings())
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	_, ok := Discover(dir)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pancake.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pancake.yml"), []byte(``), 0o644))

	path, ok := Discover(dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, ".pancake.yml"), path, "yaml is preferred over json")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(cfg *Config) {}},
		{name: "missing_source", mutate: func(cfg *Config) { cfg.Source = "" }, wantErr: "source directory is required"},
		{name: "zero_size", mutate: func(cfg *Config) { cfg.MaxSizeKB = 0 }, wantErr: "max_size_kb"},
		{name: "zero_jobs", mutate: func(cfg *Config) { cfg.Jobs = 0 }, wantErr: "jobs"},
		{name: "empty_encoding", mutate: func(cfg *Config) { cfg.Encoding = " " }, wantErr: "encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Source = "."
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("default_output", func(t *testing.T) {
		src := t.TempDir()
		cfg := Default()
		cfg.Source = src

		require.NoError(t, cfg.Resolve())
		assert.Equal(t, filepath.Join(src, DefaultOutputName), cfg.Output)
		assert.True(t, filepath.IsAbs(cfg.Source))
	})

	t.Run("source_is_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		cfg := Default()
		cfg.Source = path
		assert.ErrorIs(t, cfg.Resolve(), ErrSourceNotDirectory)
	})

	t.Run("source_missing", func(t *testing.T) {
		cfg := Default()
		cfg.Source = filepath.Join(t.TempDir(), "nope")
		assert.ErrorIs(t, cfg.Resolve(), ErrSourceNotDirectory)
	})

	t.Run("output_equals_source", func(t *testing.T) {
		src := t.TempDir()
		cfg := Default()
		cfg.Source = src
		cfg.Output = src
		assert.ErrorIs(t, cfg.Resolve(), ErrInvalidConfig)
	})

	t.Run("source_inside_output", func(t *testing.T) {
		out := t.TempDir()
		src := filepath.Join(out, "project")
		require.NoError(t, os.MkdirAll(src, 0o755))

		cfg := Default()
		cfg.Source = src
		cfg.Output = out
		err := cfg.Resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lies inside output")
	})

	t.Run("sibling_output", func(t *testing.T) {
		parent := t.TempDir()
		src := filepath.Join(parent, "project")
		require.NoError(t, os.MkdirAll(src, 0o755))

		cfg := Default()
		cfg.Source = src
		cfg.Output = filepath.Join(parent, "..flat")
		assert.NoError(t, cfg.Resolve())
	})
}

func TestDefaultsMatchDefault(t *testing.T) {
	d := Defaults()
	cfg := Default()
	assert.Equal(t, cfg.MaxSizeKB, d[KeyMaxSizeKB])
	assert.Equal(t, cfg.Separator, d[KeySeparator])
	assert.Equal(t, cfg.Jobs, d[KeyJobs])
	assert.Equal(t, true, d[KeyUseIgnoreFile])
}
