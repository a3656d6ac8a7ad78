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
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/pancake/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 🔗 GitInfo describes the repository the source directory belongs to.
type GitInfo struct {
	Branch string
	Commit string
}

// LookupGit finds the repository containing root. A root outside any
// repository returns an error wrapping git.ErrRepositoryNotExists.
func LookupGit(root string) (*GitInfo, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, errors.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, errors.Errorf("reading HEAD: %w", err)
	}

	info := &GitInfo{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	} else {
		info.Branch = "(detached)"
	}

	return info, nil
}

// 📋 Context renders the project context report.
func (g *Generator) Context(ctx context.Context, sess *walk.Session) string {
	st := sess.Stats()

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("# Project Context Information")
	line("")
	line("Generated by Pancake on %s at %s", host, st.Started.UTC().Format(time.RFC3339))
	line("")
	line("## System Information")
	line("- OS: %s", runtime.GOOS)
	line("- Architecture: %s", runtime.GOARCH)
	line("- Go: %s", runtime.Version())
	if g.opts.Version != "" {
		line("- Pancake: %s", g.opts.Version)
	}
	line("")
	line("## Project Information")
	line("- Source Directory: %s", g.opts.Root)
	line("- Run ID: %s", sess.ID)

	gi, err := LookupGit(g.opts.Root)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("no git metadata for source")
	} else {
		short := gi.Commit
		if len(short) > 12 {
			short = short[:12]
		}
		line("- Git Branch: %s", gi.Branch)
		line("- Git Commit: %s", short)
	}
	line("")
	line("## Statistics")
	line("- Files Examined: %d", st.FilesExamined)
	line("- Directories Examined: %d", st.DirsExamined)
	line("- Files Processed: %d", st.FilesCopied)
	line("- Bytes Copied: %d", st.BytesCopied)
	line("- Files Skipped: %d", st.FilesSkipped)
	line("- Directories Skipped: %d", st.DirsSkipped)
	line("- Filename Collisions Resolved: %d", st.Collisions)
	line("- Elapsed: %s", st.Elapsed.Round(time.Millisecond))
	line("")
	line("## Note")
	line("- Detailed exclusion information and skipped files are available in %s", ExcludedFile)

	return b.String()
}
