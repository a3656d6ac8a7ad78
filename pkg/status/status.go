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

package status

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// 📊 Outcome is what happened to one file during a walk.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeCopied          // copied under its flattened name
	OutcomeRenamed         // copied under a collision-resolved name
	OutcomeSkipped         // excluded by the policy
	OutcomeFailed          // copy or read failed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeRenamed:
		return "renamed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileEvent describes one file outcome.
type FileEvent struct {
	Path    string  // path relative to the source root
	Name    string  // flattened destination name, empty when not copied
	Outcome Outcome // what happened
	Reason  string  // skip or failure reason
	Size    int64   // bytes
}

// 📈 Reporter tracks per-file outcomes and overall progress.
//
// Implementations must be safe for concurrent use; parallel copies report
// from several goroutines.
type Reporter interface {
	StartOperation(ctx context.Context, total int)
	TrackFile(ctx context.Context, ev FileEvent)
	FinishOperation(ctx context.Context)
}

// 🔇 Nop discards everything.
type Nop struct{}

func (Nop) StartOperation(context.Context, int)  {}
func (Nop) TrackFile(context.Context, FileEvent) {}
func (Nop) FinishOperation(context.Context)      {}

// 📝 LogReporter writes outcomes and progress as zerolog lines.
type LogReporter struct {
	logger    *zerolog.Logger
	formatter FileFormatter

	mu        sync.Mutex
	total     int
	processed int
	counts    map[Outcome]int
}

// 🏭 NewLogReporter creates a reporter logging through logger.
func NewLogReporter(logger *zerolog.Logger) *LogReporter {
	return &LogReporter{
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		counts:    make(map[Outcome]int),
	}
}

func (r *LogReporter) StartOperation(ctx context.Context, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = total
	r.processed = 0
	r.logger.Info().Int("total", total).Msg(r.formatter.FormatProgress(0, total))
}

func (r *LogReporter) TrackFile(ctx context.Context, ev FileEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.processed++
	r.counts[ev.Outcome]++

	evt := r.logger.Debug()
	if ev.Outcome == OutcomeFailed {
		evt = r.logger.Warn()
	}
	evt.Str("path", ev.Path).
		Str("name", ev.Name).
		Stringer("outcome", ev.Outcome).
		Str("reason", ev.Reason).
		Int64("size", ev.Size).
		Msg(r.formatter.FormatFileOperation(ev))
}

func (r *LogReporter) FinishOperation(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := r.total
	if r.processed > total {
		total = r.processed
	}
	r.logger.Info().
		Int("processed", r.processed).
		Int("copied", r.counts[OutcomeCopied]+r.counts[OutcomeRenamed]).
		Int("skipped", r.counts[OutcomeSkipped]).
		Int("failed", r.counts[OutcomeFailed]).
		Msg(r.formatter.FormatProgress(r.processed, total))
}

// Counts returns how many files ended with each outcome.
func (r *LogReporter) Counts() map[Outcome]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[Outcome]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// 🖥️ IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// 🏭 NewReporter picks a progress bar for terminals and log lines otherwise.
func NewReporter(ctx context.Context, w io.Writer, quiet bool) Reporter {
	if quiet {
		return Nop{}
	}
	if IsTerminal(w) {
		return NewBarReporter(w)
	}
	return NewLogReporter(zerolog.Ctx(ctx))
}
