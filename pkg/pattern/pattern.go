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
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrEmptyPattern is returned when a pattern is empty after normalization.
	ErrEmptyPattern = errors.Base("empty pattern")
	// ErrInvalidPattern is returned for globs doublestar cannot compile.
	ErrInvalidPattern = errors.Base("invalid pattern")
)

const sep = string(os.PathSeparator)

// 🏷️ Kind is the shape of a pattern, decided once by Classify.
type Kind int

const (
	KindName      Kind = iota // single segment, no wildcard
	KindPath                  // contains a separator, no wildcard
	KindDirectory             // trailing separator
	KindRecursive             // trailing "/**"
	KindChildren              // trailing "/*"
	KindGlob                  // any other "*" or "?"
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindPath:
		return "path"
	case KindDirectory:
		return "directory"
	case KindRecursive:
		return "recursive"
	case KindChildren:
		return "children"
	case KindGlob:
		return "glob"
	default:
		return "unknown"
	}
}

// 📏 Rule identifies which matching rule accepted a path.
type Rule int

const (
	RuleNone Rule = iota
	RuleExact
	RuleBasename
	RuleSegment
	RuleDirectory
	RuleRecursive
	RuleChildren
	RuleGlob
	RuleLoose
)

func (r Rule) String() string {
	switch r {
	case RuleExact:
		return "exact"
	case RuleBasename:
		return "basename"
	case RuleSegment:
		return "segment"
	case RuleDirectory:
		return "directory"
	case RuleRecursive:
		return "recursive"
	case RuleChildren:
		return "children"
	case RuleGlob:
		return "glob"
	case RuleLoose:
		return "loose"
	default:
		return "none"
	}
}

// 📦 Source records which group a pattern came from.
type Source int

const (
	SourceDefault Source = iota
	SourceUser
	SourceIgnoreFile
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceUser:
		return "user"
	case SourceIgnoreFile:
		return "ignore-file"
	default:
		return "unknown"
	}
}

// 🎯 Pattern is a classified exclusion pattern.
type Pattern struct {
	Raw    string // pattern as written by the user or ignore file
	Source Source
	Kind   Kind

	text  string // Raw with host separators
	base  string // text without its directory/recursive/children marker
	slash string // text with forward slashes, for doublestar

	fn *regexp.Regexp // slash glob where wildcards cross "/", KindGlob only
}

// Classify normalizes raw and decides its Kind.
func Classify(raw string, source Source) (Pattern, error) {
	text := normalize(raw)
	if text == "" {
		return Pattern{}, errors.WithStack(ErrEmptyPattern)
	}

	p := Pattern{
		Raw:    raw,
		Source: source,
		text:   text,
		base:   text,
		slash:  filepath.ToSlash(text),
	}

	switch {
	case len(text) > len(sep+"**") && strings.HasSuffix(text, sep+"**"):
		p.Kind = KindRecursive
		p.base = strings.TrimSuffix(text, sep+"**")
	case len(text) > len(sep+"*") && strings.HasSuffix(text, sep+"*"):
		p.Kind = KindChildren
		p.base = strings.TrimSuffix(text, sep+"*")
	case strings.HasSuffix(text, sep):
		p.Kind = KindDirectory
		p.base = strings.TrimSuffix(text, sep)
		if p.base == "" {
			return Pattern{}, errors.Errorf("%w: %q is only a separator", ErrEmptyPattern, raw)
		}
	case hasGlobMeta(text):
		p.Kind = KindGlob
	case strings.Contains(text, sep):
		p.Kind = KindPath
	default:
		p.Kind = KindName
	}

	if hasGlobMeta(text) && !doublestar.ValidatePattern(p.slash) {
		return Pattern{}, errors.Errorf("%w: %q", ErrInvalidPattern, raw)
	}

	if p.Kind == KindGlob {
		fn, err := fnmatchRegexp(p.slash)
		if err != nil {
			return Pattern{}, errors.Errorf("%w: %q: %s", ErrInvalidPattern, raw, err.Error())
		}
		p.fn = fn
	}

	return p, nil
}

// MustClassify is Classify for patterns known to be valid.
func MustClassify(raw string, source Source) Pattern {
	p, err := Classify(raw, source)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the raw pattern.
func (p Pattern) String() string {
	return p.Raw
}

// Match reports whether rel, a path relative to the source root, matches p
// and which rule accepted it.
func (p Pattern) Match(rel string) (Rule, bool) {
	if rel == "" || rel == "." || p.text == "" {
		return RuleNone, false
	}

	if rel == p.text {
		return RuleExact, true
	}

	switch p.Kind {
	case KindName:
		if filepath.Base(rel) == p.text {
			return RuleBasename, true
		}
		if slices.Contains(strings.Split(rel, sep), p.text) {
			return RuleSegment, true
		}
		return p.matchLoose(rel)

	case KindPath:
		return p.matchLoose(rel)

	case KindDirectory:
		if underOrEqual(rel, p.base) {
			return RuleDirectory, true
		}
		return p.matchLoose(rel)

	case KindRecursive:
		if underOrEqual(rel, p.base) {
			return RuleRecursive, true
		}
		if hasGlobMeta(p.base) {
			slashRel := filepath.ToSlash(rel)
			if globMatch(p.slash, slashRel) || globMatch(filepath.ToSlash(p.base), slashRel) {
				return RuleRecursive, true
			}
		}
		return RuleNone, false

	case KindChildren:
		parent := filepath.Dir(rel)
		if parent == p.base {
			return RuleChildren, true
		}
		if hasGlobMeta(p.base) && parent != "." && globMatch(filepath.ToSlash(p.base), filepath.ToSlash(parent)) {
			return RuleChildren, true
		}
		return RuleNone, false

	case KindGlob:
		if globMatch(p.slash, filepath.ToSlash(rel)) {
			return RuleGlob, true
		}
		// a glob without a separator names entries at any depth
		if !strings.Contains(p.slash, "/") && globMatch(p.slash, filepath.Base(rel)) {
			return RuleGlob, true
		}
		// shell semantics: wildcards also span directories
		if p.fn != nil && p.fn.MatchString(filepath.ToSlash(rel)) {
			return RuleGlob, true
		}
		return RuleNone, false
	}

	return RuleNone, false
}

// Matches is Match without the rule.
func (p Pattern) Matches(rel string) bool {
	_, ok := p.Match(rel)
	return ok
}

// Match classifies raw and matches rel against it. Invalid patterns never match.
func Match(rel, raw string) bool {
	p, err := Classify(raw, SourceUser)
	if err != nil {
		return false
	}
	return p.Matches(rel)
}

// matchLoose is the permissive fallback: rel lies under p as a literal
// sub-path, or p appears anywhere inside rel.
func (p Pattern) matchLoose(rel string) (Rule, bool) {
	if strings.HasPrefix(rel, p.text+sep) || strings.Contains(rel, p.text) {
		return RuleLoose, true
	}
	return RuleNone, false
}

func underOrEqual(rel, base string) bool {
	return rel == base || strings.HasPrefix(rel, base+sep)
}

func globMatch(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// normalize converts both separator styles to the host separator.
func normalize(raw string) string {
	if sep == "/" {
		return strings.ReplaceAll(raw, `\`, "/")
	}
	return strings.ReplaceAll(raw, "/", sep)
}
