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
	"gitlab.com/tozd/go/errors"
)

// 📚 Set holds the three pattern groups of one run.
//
// Patterns are OR'd, so group order never changes whether a path is
// excluded. It does decide which pattern gets reported: user patterns are
// checked first, then defaults, then ignore-file patterns.
type Set struct {
	Default    []Pattern
	User       []Pattern
	IgnoreFile []Pattern
}

// NewSet classifies each group. Blank entries are dropped; any other
// invalid pattern fails the whole set.
func NewSet(defaults, user, ignoreFile []string) (*Set, error) {
	s := &Set{}
	var err error

	if s.Default, err = classifyAll(defaults, SourceDefault); err != nil {
		return nil, errors.Errorf("default patterns: %w", err)
	}
	if s.User, err = classifyAll(user, SourceUser); err != nil {
		return nil, errors.Errorf("user patterns: %w", err)
	}
	if s.IgnoreFile, err = classifyAll(ignoreFile, SourceIgnoreFile); err != nil {
		return nil, errors.Errorf("ignore-file patterns: %w", err)
	}

	return s, nil
}

func classifyAll(raws []string, source Source) ([]Pattern, error) {
	out := make([]Pattern, 0, len(raws))
	for _, raw := range raws {
		p, err := Classify(raw, source)
		if errors.Is(err, ErrEmptyPattern) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Ordered returns every pattern in evaluation order: user, default, ignore-file.
func (s *Set) Ordered() []Pattern {
	out := make([]Pattern, 0, s.Len())
	out = append(out, s.User...)
	out = append(out, s.Default...)
	out = append(out, s.IgnoreFile...)
	return out
}

// Len is the total number of patterns.
func (s *Set) Len() int {
	return len(s.Default) + len(s.User) + len(s.IgnoreFile)
}

// 🔍 First returns the first pattern, in evaluation order, that matches rel.
func (s *Set) First(rel string) (Pattern, Rule, bool) {
	for _, group := range [][]Pattern{s.User, s.Default, s.IgnoreFile} {
		for _, p := range group {
			if rule, ok := p.Match(rel); ok {
				return p, rule, true
			}
		}
	}
	return Pattern{}, RuleNone, false
}

// Group returns the patterns of one source.
func (s *Set) Group(source Source) []Pattern {
	switch source {
	case SourceDefault:
		return s.Default
	case SourceUser:
		return s.User
	case SourceIgnoreFile:
		return s.IgnoreFile
	default:
		return nil
	}
}

// Raw returns the raw strings of one source, in insertion order.
func (s *Set) Raw(source Source) []string {
	group := s.Group(source)
	out := make([]string, len(group))
	for i, p := range group {
		out[i] = p.Raw
	}
	return out
}
