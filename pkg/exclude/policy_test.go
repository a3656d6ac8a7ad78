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

package exclude_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pancake/pkg/exclude"
	"github.com/walteh/pancake/pkg/pattern"
)

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newPolicy(t *testing.T, root string, mut func(*exclude.Options)) *exclude.Policy {
	t.Helper()
	out := filepath.Join(root, "pancaked")
	set, err := pattern.NewSet(exclude.DefaultPatterns(out), nil, nil)
	require.NoError(t, err)

	opts := exclude.Options{
		Root:       root,
		OutputDir:  out,
		Patterns:   set,
		MaxSizeKiB: 1024,
	}
	if mut != nil {
		mut(&opts)
	}

	p, err := exclude.NewPolicy(opts)
	require.NoError(t, err)
	return p
}

func TestOutputDirectoryAlwaysExcluded(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "custom-out")

	p, err := exclude.NewPolicy(exclude.Options{
		Root:       root,
		OutputDir:  out,
		Patterns:   &pattern.Set{},
		MaxSizeKiB: 1024,
	})
	require.NoError(t, err)

	d := p.ShouldExcludeDirectory(context.Background(), out)
	assert.True(t, d.Excluded)
	assert.Equal(t, exclude.ReasonOutputDirectory, d.Kind)
	assert.Equal(t, "output directory", d.Reason)
}

func TestDirectoryPatternDecision(t *testing.T) {
	root := t.TempDir()
	p := newPolicy(t, root, nil)
	ctx := context.Background()

	d := p.ShouldExcludeDirectory(ctx, filepath.Join(root, "a", ".git"))
	require.True(t, d.Excluded)
	assert.Equal(t, exclude.ReasonPattern, d.Kind)
	assert.Equal(t, `matched pattern ".git" (default)`, d.Reason)
	require.NotNil(t, d.Pattern)
	assert.Equal(t, pattern.SourceDefault, d.Pattern.Source)

	d = p.ShouldExcludeDirectory(ctx, filepath.Join(root, "src"))
	assert.False(t, d.Excluded)
}

func TestUserPatternReportedBeforeDefault(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "pancaked")
	set, err := pattern.NewSet(exclude.DefaultPatterns(out), []string{"node_modules"}, nil)
	require.NoError(t, err)

	p, err := exclude.NewPolicy(exclude.Options{Root: root, OutputDir: out, Patterns: set, MaxSizeKiB: 1024})
	require.NoError(t, err)

	d := p.ShouldExcludeDirectory(context.Background(), filepath.Join(root, "node_modules"))
	require.True(t, d.Excluded)
	assert.Equal(t, `matched pattern "node_modules" (user)`, d.Reason)
}

func TestFileTooLarge(t *testing.T) {
	root := t.TempDir()
	p := newPolicy(t, root, func(o *exclude.Options) { o.MaxSizeKiB = 1 })

	path := writeFile(t, filepath.Join(root, "big.txt"), bytes.Repeat([]byte("a"), 2048))

	d, err := p.ShouldExcludeFile(context.Background(), path)
	require.NoError(t, err)
	require.True(t, d.Excluded)
	assert.Equal(t, exclude.ReasonTooLarge, d.Kind)
	assert.Contains(t, d.Reason, "2.0")
	assert.Contains(t, d.Reason, "1 KiB")
	assert.Equal(t, int64(2048), d.Size)
}

func TestFileExactlyAtLimitIsIncluded(t *testing.T) {
	root := t.TempDir()
	p := newPolicy(t, root, func(o *exclude.Options) { o.MaxSizeKiB = 1 })

	path := writeFile(t, filepath.Join(root, "edge.txt"), bytes.Repeat([]byte("a"), 1024))

	d, err := p.ShouldExcludeFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, d.Excluded)
}

func TestTextDetection(t *testing.T) {
	root := t.TempDir()
	p := newPolicy(t, root, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		data     []byte
		excluded bool
	}{
		{name: "empty.txt", data: nil, excluded: false},
		{name: "ascii.txt", data: []byte("hello world\n"), excluded: false},
		{name: "utf8.txt", data: []byte("héllo wörld ✓\n"), excluded: false},
		{name: "invalid.bin", data: []byte{0xff, 0xfe, 0xfd, 0x00, 0x80}, excluded: true},
		{name: "png.dat", data: append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xff}, 32)...), excluded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(root, tt.name), tt.data)
			d, err := p.ShouldExcludeFile(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, tt.excluded, d.Excluded)
			if tt.excluded {
				assert.Equal(t, exclude.ReasonBinary, d.Kind)
				assert.Equal(t, "binary file", d.Reason)
				assert.NotEmpty(t, d.Detail, "mime type should be recorded")
			}
		})
	}
}

func TestMultiByteRuneCutAtSniffBoundary(t *testing.T) {
	root := t.TempDir()
	p := newPolicy(t, root, nil)

	// 1023 ASCII bytes then a three byte rune straddling the sniff window
	data := append(bytes.Repeat([]byte("a"), exclude.SniffSize-1), []byte("✓✓")...)
	path := writeFile(t, filepath.Join(root, "boundary.txt"), data)

	d, err := p.ShouldExcludeFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, d.Excluded)
}

func TestIncludeBinary(t *testing.T) {
	root := t.TempDir()
	p := newPolicy(t, root, func(o *exclude.Options) { o.IncludeBinary = true })

	path := writeFile(t, filepath.Join(root, "blob.bin"), []byte{0xff, 0x00, 0xfe})

	d, err := p.ShouldExcludeFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, d.Excluded)
	assert.Equal(t, int64(3), d.Size)
}

func TestAlternateEncoding(t *testing.T) {
	root := t.TempDir()
	p := newPolicy(t, root, func(o *exclude.Options) { o.Encoding = "ISO-8859-1" })

	// every byte sequence is valid latin-1
	path := writeFile(t, filepath.Join(root, "latin.txt"), []byte{'c', 'a', 'f', 0xe9})

	d, err := p.ShouldExcludeFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, d.Excluded)
}

func TestUnknownEncoding(t *testing.T) {
	_, err := exclude.NewPolicy(exclude.Options{Root: t.TempDir(), Encoding: "not-a-real-charset"})
	require.Error(t, err)
	assert.ErrorIs(t, err, exclude.ErrUnknownEncoding)
}

func TestFilePatternBeatsContentChecks(t *testing.T) {
	root := t.TempDir()
	p := newPolicy(t, root, nil)

	path := writeFile(t, filepath.Join(root, "pkg", "mod.pyc"), []byte("text anyway"))

	d, err := p.ShouldExcludeFile(context.Background(), path)
	require.NoError(t, err)
	require.True(t, d.Excluded)
	assert.Equal(t, exclude.ReasonPattern, d.Kind)
	assert.Equal(t, "*.pyc", d.Pattern.Raw)
}

func TestShouldExcludeFileMissing(t *testing.T) {
	root := t.TempDir()
	p := newPolicy(t, root, nil)

	_, err := p.ShouldExcludeFile(context.Background(), filepath.Join(root, "ghost.txt"))
	assert.Error(t, err)
}

func TestDefaultPatterns(t *testing.T) {
	got := exclude.DefaultPatterns(filepath.Join("some", "where", "flat-out"))

	for _, want := range []string{".git", "node_modules", "*.pyc", ".idea", "flat-out", "pancaked", "pancake_output"} {
		assert.Contains(t, got, want)
	}

	seen := map[string]int{}
	for _, g := range exclude.DefaultPatterns(filepath.Join("x", "pancaked")) {
		seen[g]++
	}
	for k, v := range seen {
		assert.Equal(t, 1, v, "duplicate default %q", k)
	}
}
