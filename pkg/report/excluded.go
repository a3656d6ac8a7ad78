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
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/walteh/pancake/pkg/exclude"
	"github.com/walteh/pancake/pkg/pattern"
	"github.com/walteh/pancake/pkg/walk"
)

// MaxListed caps how many skipped entries are listed per reason group.
const MaxListed = 100

// kinds in the order their groups are listed
var kindOrder = []exclude.ReasonKind{
	exclude.ReasonOutputDirectory,
	exclude.ReasonPattern,
	exclude.ReasonTooLarge,
	exclude.ReasonBinary,
	exclude.ReasonError,
}

// 🚫 Excluded renders the exclusion report.
func (g *Generator) Excluded(sess *walk.Session) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("# Pancake Exclusion Information")
	line("")
	line("Generated by Pancake for project at %s", g.opts.Root)
	line("")
	line("## Exclusion Patterns")
	line("")

	for _, src := range []pattern.Source{pattern.SourceUser, pattern.SourceDefault, pattern.SourceIgnoreFile} {
		raws := g.opts.Patterns.Raw(src)
		line("### %s Patterns (%d)", sourceTitle(src), len(raws))
		line("")
		if len(raws) == 0 {
			line("None")
		}
		for _, raw := range raws {
			line("- `%s`", raw)
		}
		line("")
	}

	if len(g.opts.IgnoreFiles) > 0 {
		line("## Ignore Files")
		line("")
		for _, f := range g.opts.IgnoreFiles {
			line("- `%s`: %d patterns, %d negations skipped", f.Path, len(f.Patterns), len(f.Negations))
		}
		line("")

		negations := lo.FlatMap(g.opts.IgnoreFiles, func(f pattern.IgnoreFile, _ int) []string {
			return f.Negations
		})
		if len(negations) > 0 {
			line("Negation lines are not supported and were skipped:")
			line("")
			for _, n := range negations {
				line("- `%s`", n)
			}
			line("")
		}
	}

	writeSkips(&b, "Skipped Directories", sess.DirsSkipped())
	writeSkips(&b, "Skipped Files", sess.FilesSkipped())

	return b.String()
}

func writeSkips(b *strings.Builder, title string, records []walk.SkipRecord) {
	fmt.Fprintf(b, "## %s (%d)\n\n", title, len(records))
	if len(records) == 0 {
		b.WriteString("None\n\n")
		return
	}

	groups := lo.GroupBy(records, func(r walk.SkipRecord) exclude.ReasonKind {
		return r.Kind
	})

	for _, kind := range kindOrder {
		group, ok := groups[kind]
		if !ok {
			continue
		}
		slices.SortStableFunc(group, func(a, c walk.SkipRecord) int {
			return strings.Compare(a.Path, c.Path)
		})

		fmt.Fprintf(b, "### %s (%d)\n\n", kindTitle(kind), len(group))
		for _, r := range lo.Slice(group, 0, MaxListed) {
			fmt.Fprintf(b, "- `%s`: %s", r.Path, r.Reason)
			if r.Detail != "" {
				fmt.Fprintf(b, " (%s)", r.Detail)
			}
			b.WriteString("\n")
		}
		if len(group) > MaxListed {
			fmt.Fprintf(b, "- ... and %d more\n", len(group)-MaxListed)
		}
		b.WriteString("\n")
	}
}

func sourceTitle(s pattern.Source) string {
	switch s {
	case pattern.SourceUser:
		return "Custom"
	case pattern.SourceDefault:
		return "Default"
	case pattern.SourceIgnoreFile:
		return "Ignore File"
	default:
		return s.String()
	}
}

func kindTitle(k exclude.ReasonKind) string {
	s := k.String()
	return strings.ToUpper(s[:1]) + s[1:]
}
