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
	"regexp"
	"strings"
)

// fnmatchRegexp translates a slash glob to a regexp where "*" and "?" also
// cross "/", so "docs/*.md" covers "docs/sub/a.md". Bracket classes keep
// their meaning; "[!x]" negates.
func fnmatchRegexp(glob string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`(?s)^`)

	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			for i+1 < len(runes) && runes[i+1] == '*' {
				i++
			}
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := classEnd(runes, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(classRegexp(runes[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	b.WriteString(`$`)
	return regexp.Compile(b.String())
}

// classEnd returns the index of the "]" closing the class opened at start,
// or -1. A "]" right after "[" or "[!" is a literal member.
func classEnd(runes []rune, start int) int {
	j := start + 1
	if j < len(runes) && (runes[j] == '!' || runes[j] == '^') {
		j++
	}
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for ; j < len(runes); j++ {
		if runes[j] == ']' {
			return j
		}
	}
	return -1
}

func classRegexp(members []rune) string {
	var b strings.Builder
	b.WriteString("[")
	for k, r := range members {
		switch {
		case k == 0 && r == '!':
			b.WriteString("^")
		case k == 0 && r == '^':
			b.WriteString(`\^`)
		case r == '\\' || r == '[' || r == ']':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("]")
	return b.String()
}
