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

// Package exclude decides which directories are pruned and which files are
// left out of the flattened output.
//
// Directories and files have separate entry points: a directory decision
// must be made before descending into it and only looks at patterns, while a
// file decision also looks at the file's size and leading bytes.
package exclude

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/pancake/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures a Policy.
type Options struct {
	// Root is the absolute source directory; patterns match paths relative to it.
	Root string
	// OutputDir is the absolute output directory, always pruned.
	OutputDir string
	// Patterns are the classified pattern groups.
	Patterns *pattern.Set
	// MaxSizeKiB is the file size ceiling in KiB.
	MaxSizeKiB int64
	// IncludeBinary disables binary detection.
	IncludeBinary bool
	// Encoding is the IANA name files must decode as to count as text.
	Encoding string
}

// 🛡️ Policy answers exclusion questions for one run.
type Policy struct {
	root          string
	outputDir     string
	patterns      *pattern.Set
	maxSizeKiB    int64
	includeBinary bool
	isText        TextDecoder
}

// NewPolicy validates opts and builds a Policy.
func NewPolicy(opts Options) (*Policy, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root is required")
	}
	if opts.Patterns == nil {
		opts.Patterns = &pattern.Set{}
	}

	decoder, err := NewTextDecoder(opts.Encoding)
	if err != nil {
		return nil, err
	}

	p := &Policy{
		root:          filepath.Clean(opts.Root),
		patterns:      opts.Patterns,
		maxSizeKiB:    opts.MaxSizeKiB,
		includeBinary: opts.IncludeBinary,
		isText:        decoder,
	}
	if opts.OutputDir != "" {
		p.outputDir = filepath.Clean(opts.OutputDir)
	}

	return p, nil
}

// Patterns returns the pattern groups the policy evaluates.
func (p *Policy) Patterns() *pattern.Set {
	return p.patterns
}

// Rel returns path relative to the source root.
func (p *Policy) Rel(path string) (string, error) {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		return "", errors.Errorf("relative path of %s: %w", path, err)
	}
	return rel, nil
}

// 📁 ShouldExcludeDirectory decides whether the walker may descend into path.
// The output directory is excluded no matter which patterns are configured.
func (p *Policy) ShouldExcludeDirectory(ctx context.Context, path string) Decision {
	if p.outputDir != "" && filepath.Clean(path) == p.outputDir {
		return outputDirectory()
	}

	rel, err := p.Rel(path)
	if err != nil {
		// outside the root: nothing to match against
		return Decision{}
	}

	if d, ok := p.matchPatterns(ctx, rel, true); ok {
		return d
	}

	return Decision{}
}

// 📄 ShouldExcludeFile decides whether the file at path is copied. Patterns
// are checked first, then the size ceiling, then binary content. A returned
// error is an I/O failure other than a decode failure.
func (p *Policy) ShouldExcludeFile(ctx context.Context, path string) (Decision, error) {
	rel, err := p.Rel(path)
	if err != nil {
		return Decision{}, err
	}

	if d, ok := p.matchPatterns(ctx, rel, false); ok {
		return d, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return Decision{}, errors.Errorf("stat: %w", err)
	}
	size := info.Size()

	if float64(size)/1024 > float64(p.maxSizeKiB) {
		return tooLarge(size, p.maxSizeKiB), nil
	}

	if p.includeBinary {
		return Include(size), nil
	}

	head, err := readHead(path)
	if err != nil {
		return Decision{}, err
	}

	if !p.isText(head, size > int64(len(head))) {
		return binaryFile(size, detectMIME(head)), nil
	}

	return Include(size), nil
}

func (p *Policy) matchPatterns(ctx context.Context, rel string, isDir bool) (Decision, bool) {
	pat, rule, ok := p.patterns.First(rel)
	if !ok {
		return Decision{}, false
	}

	zerolog.Ctx(ctx).Trace().
		Str("path", rel).
		Bool("dir", isDir).
		Str("pattern", pat.Raw).
		Stringer("source", pat.Source).
		Stringer("rule", rule).
		Msg("pattern matched")

	return matchedPattern(pat), true
}
