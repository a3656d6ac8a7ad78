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

// Package report writes the metadata artifacts that accompany a flattened
// output directory: the directory structure, the project context and the
// exclusion report.
package report

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/pancake/pkg/pattern"
	"github.com/walteh/pancake/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// Report file names. The 00_ prefix sorts them ahead of flattened files.
const (
	StructureFile = "00_directory_structure.txt"
	ContextFile   = "00_project_context.md"
	ExcludedFile  = "00_pancake_excluded.md"
)

// ReservedNames are claimed before the walk so no source file can take them.
func ReservedNames() []string {
	return []string{StructureFile, ContextFile, ExcludedFile}
}

// 🔧 Options configures a Generator.
type Options struct {
	// Root is the absolute source directory.
	Root string
	// OutputDir is where the reports are written.
	OutputDir string
	// Patterns are the active pattern groups.
	Patterns *pattern.Set
	// IgnoreFiles are the ignore files that were found and parsed.
	IgnoreFiles []pattern.IgnoreFile
	// TreeCommand is the external tree program; empty uses "tree".
	TreeCommand string
	// NoTree skips the external program and always renders the walk.
	NoTree bool
	// Version is stamped into the context report.
	Version string
}

// 📝 Generator renders and writes the three reports.
type Generator struct {
	opts Options
}

// New builds a Generator.
func New(opts Options) *Generator {
	if opts.TreeCommand == "" {
		opts.TreeCommand = DefaultTreeCommand
	}
	if opts.Patterns == nil {
		opts.Patterns = &pattern.Set{}
	}
	return &Generator{opts: opts}
}

// 🏃 Generate writes every report for sess. A failing tree program degrades
// the structure report; only write failures are returned.
func (g *Generator) Generate(ctx context.Context, sess *walk.Session) error {
	logger := zerolog.Ctx(ctx)

	structure := g.Structure(ctx, sess)
	if err := g.write(StructureFile, structure); err != nil {
		return err
	}

	if err := g.write(ContextFile, g.Context(ctx, sess)); err != nil {
		return err
	}

	if err := g.write(ExcludedFile, g.Excluded(sess)); err != nil {
		return err
	}

	logger.Debug().Str("output", g.opts.OutputDir).Msg("reports written")
	return nil
}

func (g *Generator) write(name, content string) error {
	path := filepath.Join(g.opts.OutputDir, name)
	if err := writeFileAtomic(path, []byte(content), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", name, err)
	}
	return nil
}
