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

package pattern

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIgnore(t *testing.T) {
	src := strings.Join([]string{
		"# build output",
		"",
		"dist/",
		"*.log",
		"!keep.log",
		"   ",
		"/vendor",
		"coverage.out\r",
		"docs/**  ",
	}, "\n")

	patterns, negations, err := ParseIgnore(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"dist", "*.log", "vendor", "coverage.out", "docs/**"}, patterns)
	assert.Equal(t, []string{"!keep.log"}, negations, "negations should be collected, not applied")
}

func TestParseIgnoreStripsOnlyOneTrailingSeparator(t *testing.T) {
	patterns, _, err := ParseIgnore(strings.NewReader("cache//\n/\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cache/"}, patterns)
}

func TestLoadIgnoreFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("bin/\n*.tmp\n!important.tmp\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".idea"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".idea", ".gitignore"), []byte("/workspace.xml\n"), 0o644))

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	files := LoadIgnoreFiles(ctx, root)
	require.Len(t, files, 2, "both ignore files should be found")

	assert.Equal(t, filepath.Join(root, ".gitignore"), files[0].Path)
	assert.Equal(t, []string{"bin", "*.tmp"}, files[0].Patterns)
	assert.Equal(t, []string{"!important.tmp"}, files[0].Negations)
	assert.Equal(t, []string{"workspace.xml"}, files[1].Patterns)

	assert.Equal(t, []string{"bin", "*.tmp", "workspace.xml"}, FlattenIgnoreFiles(files))
}

func TestLoadIgnoreFilesMissing(t *testing.T) {
	files := LoadIgnoreFiles(context.Background(), t.TempDir())
	assert.Empty(t, files)
}
