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

package operation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/pancake/pkg/config"
	"github.com/walteh/pancake/pkg/exclude"
	"github.com/walteh/pancake/pkg/pattern"
	"github.com/walteh/pancake/pkg/report"
	"github.com/walteh/pancake/pkg/status"
	"github.com/walteh/pancake/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrOverwriteDeclined is returned when a non-empty output directory may not be cleared.
	ErrOverwriteDeclined = errors.Base("output directory overwrite declined")
	// ErrOutputLocked is returned when another run holds the output directory.
	ErrOutputLocked = errors.Base("output directory is locked by another run")
)

// 🎯 Operation is one executable unit of work
type Operation interface {
	Execute(ctx context.Context) error
}

// 📊 State is the phase a flatten run is in.
type State int

const (
	StateInit State = iota
	StateScanning
	StateWalking
	StateReporting
	StateDone
)

// String returns a string representation of State
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateScanning:
		return "scanning"
	case StateWalking:
		return "walking"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ❓ Confirmer asks whether a non-empty output directory may be cleared.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// 🔧 Options configures a FlattenOperation
type Options struct {
	// Config is the run configuration; it is resolved during Init.
	Config *config.Config
	// Confirmer is asked before clearing a non-empty output directory.
	// Without one, a non-empty output is only cleared when Config.Force is set.
	Confirmer Confirmer
	// Reporter receives progress events.
	Reporter status.Reporter
	// Scan counts files before walking so the reporter gets a total.
	Scan bool
	// Version is stamped into the context report.
	Version string
}

// 🥞 FlattenOperation copies a source tree into one flat output directory
// and writes the run reports.
type FlattenOperation struct {
	cfg       *config.Config
	confirmer Confirmer
	reporter  status.Reporter
	scan      bool
	version   string

	mu      sync.Mutex
	state   State
	session *walk.Session
}

var _ Operation = (*FlattenOperation)(nil)

// 🏭 NewFlattenOperation validates opts and builds the operation
func NewFlattenOperation(opts Options) (*FlattenOperation, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	if opts.Reporter == nil {
		opts.Reporter = status.Nop{}
	}

	return &FlattenOperation{
		cfg:       opts.Config,
		confirmer: opts.Confirmer,
		reporter:  opts.Reporter,
		scan:      opts.Scan,
		version:   opts.Version,
		state:     StateInit,
	}, nil
}

// State returns the phase the run is in.
func (op *FlattenOperation) State() State {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.state
}

// Session returns the run session, or nil before walking starts.
func (op *FlattenOperation) Session() *walk.Session {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.session
}

// Config returns the run configuration, resolved once Execute has started.
func (op *FlattenOperation) Config() *config.Config {
	return op.cfg
}

func (op *FlattenOperation) setState(ctx context.Context, s State) {
	op.mu.Lock()
	op.state = s
	op.mu.Unlock()
	zerolog.Ctx(ctx).Debug().Stringer("state", s).Msg("flatten state")
}

// 🏃 Execute runs the whole flatten. Per-file failures end up in the
// session; only failures that abort the run are returned.
func (op *FlattenOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	op.setState(ctx, StateInit)

	if err := op.cfg.Resolve(); err != nil {
		return errors.Errorf("resolving config: %w", err)
	}

	unlock, err := lockOutput(ctx, op.cfg.Output)
	if err != nil {
		return err
	}
	defer unlock()

	if err := op.prepareOutput(ctx); err != nil {
		return err
	}

	patterns, ignoreFiles, err := op.buildPatterns(ctx)
	if err != nil {
		return err
	}

	policy, err := exclude.NewPolicy(exclude.Options{
		Root:          op.cfg.Source,
		OutputDir:     op.cfg.Output,
		Patterns:      patterns,
		MaxSizeKiB:    op.cfg.MaxSizeKB,
		IncludeBinary: op.cfg.IncludeBinary,
		Encoding:      op.cfg.Encoding,
	})
	if err != nil {
		return errors.Errorf("building exclusion policy: %w", err)
	}

	walker, err := walk.New(walk.Options{
		Root:      op.cfg.Source,
		OutputDir: op.cfg.Output,
		Policy:    policy,
		Separator: op.cfg.Separator,
		Jobs:      op.cfg.Jobs,
		Reporter:  op.reporter,
	})
	if err != nil {
		return errors.Errorf("building walker: %w", err)
	}

	sess := walk.NewSession(report.ReservedNames()...)
	op.mu.Lock()
	op.session = sess
	op.mu.Unlock()

	logger.Info().
		Str("run_id", sess.ID).
		Str("source", op.cfg.Source).
		Str("output", op.cfg.Output).
		Int("patterns", patterns.Len()).
		Msg("flattening")

	total := 0
	if op.scan {
		op.setState(ctx, StateScanning)
		if total, err = walker.Scan(ctx); err != nil {
			return errors.Errorf("scanning source: %w", err)
		}
	}

	op.setState(ctx, StateWalking)
	op.reporter.StartOperation(ctx, total)
	walkErr := walker.Walk(ctx, sess)
	op.reporter.FinishOperation(ctx)
	sess.Finish()
	if walkErr != nil {
		return errors.Errorf("walking source: %w", walkErr)
	}

	op.setState(ctx, StateReporting)
	gen := report.New(report.Options{
		Root:        op.cfg.Source,
		OutputDir:   op.cfg.Output,
		Patterns:    patterns,
		IgnoreFiles: ignoreFiles,
		TreeCommand: op.cfg.TreeCommand,
		NoTree:      op.cfg.NoTree,
		Version:     op.version,
	})
	if err := gen.Generate(ctx, sess); err != nil {
		return errors.Errorf("writing reports: %w", err)
	}

	stats := sess.Stats()
	logger.Info().
		Int("copied", stats.FilesCopied).
		Int("files_skipped", stats.FilesSkipped).
		Int("dirs_skipped", stats.DirsSkipped).
		Int("collisions", stats.Collisions).
		Dur("elapsed", stats.Elapsed).
		Msg("flatten complete")

	op.setState(ctx, StateDone)
	return nil
}

// 🔍 buildPatterns assembles the active pattern groups
func (op *FlattenOperation) buildPatterns(ctx context.Context) (*pattern.Set, []pattern.IgnoreFile, error) {
	var defaults []string
	if !op.cfg.NoDefaults {
		defaults = exclude.DefaultPatterns(op.cfg.Output)
	}

	var ignoreFiles []pattern.IgnoreFile
	if op.cfg.UseIgnoreFile {
		ignoreFiles = pattern.LoadIgnoreFiles(ctx, op.cfg.Source)
	}

	set, err := pattern.NewSet(defaults, op.cfg.Exclude, pattern.FlattenIgnoreFiles(ignoreFiles))
	if err != nil {
		return nil, nil, errors.Errorf("building patterns: %w", err)
	}
	return set, ignoreFiles, nil
}
