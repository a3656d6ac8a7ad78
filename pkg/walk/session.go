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

package walk

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/walteh/pancake/pkg/exclude"
	"github.com/walteh/pancake/pkg/flatten"
)

// 📊 Stats are the counters of one run.
type Stats struct {
	FilesExamined int
	DirsExamined  int
	FilesCopied   int
	FilesSkipped  int
	DirsSkipped   int
	Collisions    int
	BytesCopied   int64
	Started       time.Time
	Elapsed       time.Duration
}

// ⏭️ SkipRecord is one entry left out of the output.
type SkipRecord struct {
	Path    string // relative to the source root
	Kind    exclude.ReasonKind
	Reason  string
	Detail  string
	Pattern string // raw pattern for pattern skips
}

// 📦 CopyRecord is one file written to the output.
type CopyRecord struct {
	Path    string // relative to the source root
	Name    string // flattened name in the output directory
	Size    int64
	Renamed bool
}

// 🌳 Entry is a retained tree node, kept for rendering the structure report
// without a second walk.
type Entry struct {
	Path string
	Dir  bool
}

// 🗂️ Session owns all mutable state of exactly one run.
//
// The Namer is only touched from the walking goroutine. Everything else is
// guarded by mu so parallel copies can record their results.
type Session struct {
	ID string

	namer *flatten.Namer

	mu           sync.Mutex
	stats        Stats
	filesSkipped []SkipRecord
	dirsSkipped  []SkipRecord
	copies       []CopyRecord
	entries      []Entry
}

// NewSession starts a session. reserved names are never handed to source
// files; pass the report file names here.
func NewSession(reserved ...string) *Session {
	return &Session{
		ID:    uuid.NewString(),
		namer: flatten.NewNamer(reserved...),
		stats: Stats{Started: time.Now()},
	}
}

// Finish stamps the elapsed time.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Elapsed = time.Since(s.stats.Started)
}

// Stats returns a snapshot of the counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats
	st.Collisions = s.namer.Collisions()
	if st.Elapsed == 0 {
		st.Elapsed = time.Since(st.Started)
	}
	return st
}

// FilesSkipped returns the skipped files in the order they were recorded.
func (s *Session) FilesSkipped() []SkipRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.filesSkipped)
}

// DirsSkipped returns the pruned directories in the order they were recorded.
func (s *Session) DirsSkipped() []SkipRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.dirsSkipped)
}

// Copies returns the copied files sorted by source path.
func (s *Session) Copies() []CopyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := slices.Clone(s.copies)
	slices.SortFunc(out, func(a, b CopyRecord) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

// Entries returns retained tree nodes in walk order.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// NameUsed reports whether name is taken in the output directory.
func (s *Session) NameUsed(name string) bool {
	return s.namer.Used(name)
}

func (s *Session) claim(candidate string) (string, bool) {
	return s.namer.Claim(candidate)
}

func (s *Session) examineDir() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.DirsExamined++
}

func (s *Session) examineFile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.FilesExamined++
}

func (s *Session) retain(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *Session) skipFile(r SkipRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filesSkipped = append(s.filesSkipped, r)
	s.stats.FilesSkipped++
}

func (s *Session) skipDir(r SkipRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirsSkipped = append(s.dirsSkipped, r)
	s.stats.DirsSkipped++
}

func (s *Session) copied(r CopyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copies = append(s.copies, r)
	s.stats.FilesCopied++
	s.stats.BytesCopied += r.Size
}

func skipFromDecision(rel string, d exclude.Decision) SkipRecord {
	r := SkipRecord{
		Path:   rel,
		Kind:   d.Kind,
		Reason: d.Reason,
		Detail: d.Detail,
	}
	if d.Pattern != nil {
		r.Pattern = d.Pattern.Raw
	}
	return r
}

func skipFromError(rel, reason string, err error) SkipRecord {
	return SkipRecord{
		Path:   rel,
		Kind:   exclude.ReasonError,
		Reason: reason,
		Detail: err.Error(),
	}
}
