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
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 IgnoreFile is one parsed ignore file.
type IgnoreFile struct {
	Path      string   // absolute path of the file
	Patterns  []string // surviving lines, in file order
	Negations []string // "!" lines, parsed but never applied
}

// IgnoreFileLocations lists the candidate ignore files under root: the
// project .gitignore and the JetBrains one inside .idea.
func IgnoreFileLocations(root string) []string {
	return []string{
		filepath.Join(root, ".gitignore"),
		filepath.Join(root, ".idea", ".gitignore"),
	}
}

// ParseIgnore reads gitignore-style lines from r.
//
// Blank lines and "#" comments are skipped. Negation lines are collected
// separately and not turned into patterns. A single trailing separator and a
// single leading "/" root anchor are stripped.
func ParseIgnore(r io.Reader) (patterns, negations []string, err error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(strings.TrimRight(s.Text(), "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "!") {
			negations = append(negations, line)
			continue
		}

		line = strings.TrimSuffix(line, "/")
		line = strings.TrimPrefix(line, "/")
		if line == "" {
			continue
		}

		patterns = append(patterns, line)
	}

	if err := s.Err(); err != nil {
		return nil, nil, errors.Errorf("scanning ignore file: %w", err)
	}

	return patterns, negations, nil
}

// LoadIgnoreFiles parses every ignore file that exists under root, in
// IgnoreFileLocations order. Missing files are skipped. A file that exists
// but cannot be read is logged and skipped so one bad file never aborts a run.
func LoadIgnoreFiles(ctx context.Context, root string) []IgnoreFile {
	logger := zerolog.Ctx(ctx)

	var out []IgnoreFile
	for _, path := range IgnoreFileLocations(root) {
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("opening ignore file")
			continue
		}

		patterns, negations, err := ParseIgnore(f)
		_ = f.Close()
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("reading ignore file")
			continue
		}

		logger.Debug().
			Str("path", path).
			Int("patterns", len(patterns)).
			Int("negations_skipped", len(negations)).
			Msg("loaded ignore file")

		out = append(out, IgnoreFile{
			Path:      path,
			Patterns:  patterns,
			Negations: negations,
		})
	}

	return out
}

// FlattenIgnoreFiles concatenates the patterns of files in order.
func FlattenIgnoreFiles(files []IgnoreFile) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Patterns...)
	}
	return out
}
