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

package report

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/rs/zerolog"
	"github.com/walteh/pancake/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// DefaultTreeCommand is the external program used for the structure report.
const DefaultTreeCommand = "tree"

const installHint = `Please install the 'tree' command:
- On Ubuntu/Debian: sudo apt-get install tree
- On MacOS: brew install tree
- On Windows: Install via Chocolatey: choco install tree
`

// 🌳 Structure renders the directory structure report. The external tree
// program is preferred; on failure the retained walk entries are rendered
// instead, prefixed by why the program could not be used.
func (g *Generator) Structure(ctx context.Context, sess *walk.Session) string {
	if g.opts.NoTree {
		return RenderTree(filepath.Base(g.opts.Root), sess.Entries())
	}

	out, err := g.runTree(ctx)
	if err == nil {
		return out
	}

	zerolog.Ctx(ctx).Warn().Err(err).Str("command", g.opts.TreeCommand).Msg("tree command failed, rendering from walk")

	var b strings.Builder
	fmt.Fprintf(&b, "Error running tree command: %v\n\n", err)
	b.WriteString(installHint)
	b.WriteString("\nDirectory structure (as fallback):\n")
	b.WriteString(RenderTree(filepath.Base(g.opts.Root), sess.Entries()))
	return b.String()
}

// TreeArgs builds the arguments for the tree program. Only patterns without
// a path separator are passed, since -I matches names, not paths.
func (g *Generator) TreeArgs() []string {
	args := []string{"-a"}

	var names []string
	for _, p := range g.opts.Patterns.Ordered() {
		raw := strings.TrimSpace(p.Raw)
		if raw == "" || strings.ContainsAny(raw, `/\|`) {
			continue
		}
		names = append(names, raw)
	}
	if len(names) > 0 {
		args = append(args, "-I", strings.Join(names, "|"))
	}

	return append(args, g.opts.Root)
}

func (g *Generator) runTree(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, g.opts.TreeCommand, g.TreeArgs()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.Errorf("%s: %s", err.Error(), msg)
		}
		return "", errors.Errorf("running %s: %w", g.opts.TreeCommand, err)
	}

	return stdout.String(), nil
}

// RenderTree draws entries (relative paths in walk pre-order) under a root
// label. Styles are blank so the report stays plain text.
func RenderTree(rootLabel string, entries []walk.Entry) string {
	list := make(pterm.LeveledList, 0, len(entries))
	for _, e := range entries {
		text := filepath.Base(e.Path)
		if e.Dir {
			text += "/"
		}
		list = append(list, pterm.LeveledListItem{
			Level: strings.Count(e.Path, string(filepath.Separator)),
			Text:  text,
		})
	}

	var b strings.Builder
	b.WriteString(rootLabel + "/\n")

	if len(list) == 0 {
		return b.String()
	}

	rendered, err := pterm.DefaultTree.
		WithRoot(putils.TreeFromLeveledList(list)).
		WithTreeStyle(pterm.NewStyle()).
		WithTextStyle(pterm.NewStyle()).
		Srender()
	if err != nil {
		// pterm only fails on writer errors; fall back to an indented list
		for _, item := range list {
			b.WriteString(strings.Repeat("  ", item.Level) + item.Text + "\n")
		}
		return b.String()
	}

	b.WriteString(rendered)
	if !strings.HasSuffix(rendered, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
