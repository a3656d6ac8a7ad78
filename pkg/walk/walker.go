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

// Package walk drives the top-down traversal of the source tree: pruning
// excluded directories before descent, filtering files, claiming flattened
// names and copying into the output directory.
package walk

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
	"github.com/rs/zerolog"
	"github.com/walteh/pancake/pkg/exclude"
	"github.com/walteh/pancake/pkg/flatten"
	"github.com/walteh/pancake/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 Options configures a Walker.
type Options struct {
	// Root is the absolute source directory.
	Root string
	// OutputDir is the absolute directory flattened files are copied into.
	OutputDir string
	// Policy decides what is pruned and skipped.
	Policy *exclude.Policy
	// Separator replaces path separators in flattened names.
	Separator string
	// Jobs bounds concurrent copies; 1 or less copies inline.
	Jobs int
	// Reporter receives one event per examined file.
	Reporter status.Reporter
}

// 🚶 Walker walks one source tree.
type Walker struct {
	root      string
	outputDir string
	policy    *exclude.Policy
	sep       string
	jobs      int
	reporter  status.Reporter
	copyOpts  cp.Options
}

// New validates opts and builds a Walker.
func New(opts Options) (*Walker, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root is required")
	}
	if opts.OutputDir == "" {
		return nil, errors.Errorf("output directory is required")
	}
	if opts.Policy == nil {
		return nil, errors.Errorf("policy is required")
	}
	if opts.Reporter == nil {
		opts.Reporter = status.Nop{}
	}

	return &Walker{
		root:      filepath.Clean(opts.Root),
		outputDir: filepath.Clean(opts.OutputDir),
		policy:    opts.Policy,
		sep:       opts.Separator,
		jobs:      opts.Jobs,
		reporter:  opts.Reporter,
		copyOpts: cp.Options{
			// keep mtime/atime like a metadata-preserving copy
			PreserveTimes: true,
			PreserveOwner: false,
			// a symlinked file is copied as the file it points at
			OnSymlink: func(src string) cp.SymlinkAction {
				return cp.Deep
			},
		},
	}, nil
}

// 🏃 Walk traverses the source tree, recording everything into sess. Only
// failures that make the whole walk meaningless are returned: an unreadable
// root or a cancelled context. Everything else becomes a skip record.
func (w *Walker) Walk(ctx context.Context, sess *Session) error {
	if w.jobs <= 1 {
		return w.walkDir(ctx, sess, nil, w.root)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.jobs)

	walkErr := w.walkDir(gctx, sess, g, w.root)
	if err := g.Wait(); err != nil && walkErr == nil {
		walkErr = err
	}
	return walkErr
}

// 🔢 Scan counts the files the walk will examine, honouring directory
// pruning. It is used to size progress reporting and never records anything.
func (w *Walker) Scan(ctx context.Context) (int, error) {
	var count int
	var scan func(dir string) error
	scan = func(dir string) error {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("scan cancelled: %w", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == w.root {
				return errors.Errorf("reading source directory: %w", err)
			}
			return nil
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			isDir, symlink := w.classify(e, path)
			if !isDir {
				count++
				continue
			}
			if symlink || w.policy.ShouldExcludeDirectory(ctx, path).Excluded {
				continue
			}
			if err := scan(path); err != nil {
				return err
			}
		}
		return nil
	}

	if err := scan(w.root); err != nil {
		return 0, err
	}
	return count, nil
}

func (w *Walker) walkDir(ctx context.Context, sess *Session, g *errgroup.Group, dir string) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("walk cancelled: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	rel := w.rel(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == w.root {
			return errors.Errorf("reading source directory: %w", err)
		}
		logger.Warn().Err(err).Str("dir", rel).Msg("unreadable directory")
		sess.skipDir(skipFromError(rel, "unreadable directory", err))
		return nil
	}

	var subdirs, files []string

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		isDir, symlink := w.classify(e, path)
		if !isDir {
			files = append(files, path)
			continue
		}
		if symlink {
			logger.Debug().Str("dir", w.rel(path)).Msg("not following symlinked directory")
			continue
		}
		subdirs = append(subdirs, path)
	}

	// prune before descent; a pruned directory's contents are never listed
	retained := subdirs[:0]
	for _, path := range subdirs {
		sess.examineDir()
		d := w.policy.ShouldExcludeDirectory(ctx, path)
		if d.Excluded {
			logger.Debug().Str("dir", w.rel(path)).Str("reason", d.Reason).Msg("pruned directory")
			sess.skipDir(skipFromDecision(w.rel(path), d))
			continue
		}
		retained = append(retained, path)
	}

	for _, path := range files {
		if err := w.visitFile(ctx, sess, g, path); err != nil {
			return err
		}
	}

	for _, path := range retained {
		sess.retain(Entry{Path: w.rel(path), Dir: true})
		if err := w.walkDir(ctx, sess, g, path); err != nil {
			return err
		}
	}

	return nil
}

func (w *Walker) visitFile(ctx context.Context, sess *Session, g *errgroup.Group, path string) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("walk cancelled: %w", err)
	}

	rel := w.rel(path)
	sess.examineFile()

	d, err := w.policy.ShouldExcludeFile(ctx, path)
	if err != nil {
		rec := skipFromError(rel, "unreadable file", err)
		sess.skipFile(rec)
		sess.retain(Entry{Path: rel})
		w.reporter.TrackFile(ctx, status.FileEvent{Path: rel, Outcome: status.OutcomeFailed, Reason: rec.Detail})
		return nil
	}
	if d.Excluded {
		sess.skipFile(skipFromDecision(rel, d))
		if d.Kind != exclude.ReasonPattern {
			sess.retain(Entry{Path: rel})
		}
		w.reporter.TrackFile(ctx, status.FileEvent{Path: rel, Outcome: status.OutcomeSkipped, Reason: d.Reason, Size: d.Size})
		return nil
	}

	sess.retain(Entry{Path: rel})

	name, renamed := sess.claim(flatten.Flatten(rel, w.sep))
	if renamed {
		zerolog.Ctx(ctx).Debug().Str("path", rel).Str("name", name).Msg("resolved name collision")
	}

	job := func() error {
		return w.copyFile(ctx, sess, path, rel, name, renamed, d.Size)
	}

	if g == nil {
		return job()
	}
	g.Go(job)
	return nil
}

// copyFile copies one file. Only cancellation is returned; copy failures are
// recorded on the session.
func (w *Walker) copyFile(ctx context.Context, sess *Session, path, rel, name string, renamed bool, size int64) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("copy cancelled: %w", err)
	}

	dst := filepath.Join(w.outputDir, name)
	if err := cp.Copy(path, dst, w.copyOpts); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", rel).Msg("copy failed")
		rec := skipFromError(rel, "copy failed", err)
		sess.skipFile(rec)
		w.reporter.TrackFile(ctx, status.FileEvent{Path: rel, Name: name, Outcome: status.OutcomeFailed, Reason: rec.Detail})
		return nil
	}

	sess.copied(CopyRecord{Path: rel, Name: name, Size: size, Renamed: renamed})

	outcome := status.OutcomeCopied
	if renamed {
		outcome = status.OutcomeRenamed
	}
	w.reporter.TrackFile(ctx, status.FileEvent{Path: rel, Name: name, Outcome: outcome, Size: size})
	return nil
}

// classify reports whether an entry is walked as a directory. Symlinks are
// resolved so a link to a file is treated as a file; a link to a directory
// is reported with symlink set so it is never followed.
func (w *Walker) classify(e fs.DirEntry, path string) (isDir, symlink bool) {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir(), false
	}
	info, err := os.Stat(path)
	if err != nil {
		// dangling link: treat as a file so the failure is recorded
		return false, true
	}
	return info.IsDir(), true
}

func (w *Walker) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return rel
}
