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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pancake/pkg/config"
	"github.com/walteh/pancake/pkg/operation"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func parse(t *testing.T, source string, args ...string) (*config.Config, error) {
	t.Helper()
	cmd := newRootCmd(streams{out: &bytes.Buffer{}, err: &bytes.Buffer{}})
	require.NoError(t, cmd.ParseFlags(args))
	return loadConfig(testContext(t), cmd.Flags(), source)
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		env         map[string]string
		args        []string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, int64(config.DefaultMaxSizeKB), cfg.MaxSizeKB)
				assert.Equal(t, config.DefaultSeparator, cfg.Separator)
				assert.True(t, cfg.UseIgnoreFile)
				assert.False(t, cfg.Force)
				assert.Empty(t, cfg.Output)
				assert.Empty(t, cfg.Exclude)
			},
		},
		{
			name: "flags",
			args: []string{"-o", "/tmp/flat", "-e", "*.log", "-e", "dist", "-m", "64", "-b", "-s", "+", "-f", "-j", "4", "--no-tree"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "/tmp/flat", cfg.Output)
				assert.Equal(t, []string{"*.log", "dist"}, cfg.Exclude)
				assert.Equal(t, int64(64), cfg.MaxSizeKB)
				assert.True(t, cfg.IncludeBinary)
				assert.Equal(t, "+", cfg.Separator)
				assert.True(t, cfg.Force)
				assert.Equal(t, 4, cfg.Jobs)
				assert.True(t, cfg.NoTree)
			},
		},
		{
			name: "no_gitignore_inverts",
			args: []string{"--no-gitignore"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.False(t, cfg.UseIgnoreFile)
			},
		},
		{
			name: "config_file_discovered",
			files: map[string]string{
				".pancake.yaml": "separator: \"--\"\njobs: 3\nuse_ignore_file: false\n",
			},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "--", cfg.Separator)
				assert.Equal(t, 3, cfg.Jobs)
				assert.False(t, cfg.UseIgnoreFile)
				assert.Equal(t, int64(config.DefaultMaxSizeKB), cfg.MaxSizeKB, "unset keys keep defaults")
			},
		},
		{
			name: "env_over_file_and_flags_over_env",
			files: map[string]string{
				".pancake.hcl": "separator = \"--\"\njobs = 3\n",
			},
			env: map[string]string{
				"PANCAKE_SEPARATOR": "+",
				"PANCAKE_JOBS":      "5",
			},
			args: []string{"--separator", "~"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "~", cfg.Separator, "flag beats env")
				assert.Equal(t, 5, cfg.Jobs, "env beats file")
			},
		},
		{
			name: "invalid_config_file",
			files: map[string]string{
				".pancake.json": `{"separatr": "-"}`,
			},
			wantErr:     true,
			errContains: "separatr",
		},
		{
			name:        "invalid_value",
			args:        []string{"--jobs", "0"},
			wantErr:     true,
			errContains: "jobs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, filepath.Join(src, name), content)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := parse(t, src, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, config.ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, src, cfg.Source)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfigExplicitFile(t *testing.T) {
	src := t.TempDir()
	path := filepath.Join(t.TempDir(), "custom.yml")
	writeFile(t, path, "max_size_kb: 8\n")

	cfg, err := parse(t, src, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, int64(8), cfg.MaxSizeKB)
}

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd(streams{out: out, err: &bytes.Buffer{}})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(testContext(t))
	return out.String(), err
}

func TestRootCommandFlattens(t *testing.T) {
	parent := t.TempDir()
	src := filepath.Join(parent, "project")
	out := filepath.Join(parent, "flat")
	writeFile(t, filepath.Join(src, "a", "x.txt"), "x")
	writeFile(t, filepath.Join(src, "a", ".git", "cfg"), "[core]")
	writeFile(t, filepath.Join(src, "b", "z.txt"), "z")

	stdout, err := executeCmd(t, src, "-o", out, "--no-tree", "-v")
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode(err))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"00_directory_structure.txt",
		"00_pancake_excluded.md",
		"00_project_context.md",
		"a_x.txt",
		"b_z.txt",
	}, names)

	assert.Contains(t, stdout, "a/x.txt")
	assert.Contains(t, stdout, "Processed: 2 files")
	assert.Contains(t, stdout, "Filename collisions resolved: 0")
}

func TestRootCommandOverwriteDeclined(t *testing.T) {
	parent := t.TempDir()
	src := filepath.Join(parent, "project")
	out := filepath.Join(parent, "flat")
	writeFile(t, filepath.Join(src, "x.txt"), "x")
	writeFile(t, filepath.Join(out, "old.txt"), "old")

	stdout, err := executeCmd(t, src, "-o", out, "--no-tree")
	require.Error(t, err)
	assert.ErrorIs(t, err, operation.ErrOverwriteDeclined)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, stdout, "--force")

	stdout, err = executeCmd(t, src, "-o", out, "--no-tree", "--force")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Processed: 1 files")
	_, statErr := os.Stat(filepath.Join(out, "old.txt"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRootCommandRequiresSource(t *testing.T) {
	_, err := executeCmd(t)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(assert.AnError))
	assert.Equal(t, 130, exitCode(context.Canceled))
}

func TestVersionCommand(t *testing.T) {
	stdout, err := executeCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pancake version info")
	assert.Contains(t, stdout, GetVersionInfo().GoVersion)
}
