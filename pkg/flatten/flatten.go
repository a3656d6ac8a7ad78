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

// Package flatten turns relative paths into single flat file names and keeps
// those names unique within one run.
package flatten

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
)

// hostile characters that are invalid in file names on at least one platform.
// Separators are included so a separator string can never reintroduce one.
var hostile = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
	"/", "_",
	`\`, "_",
)

// 🥞 Flatten replaces every path separator in rel with sep, then replaces
// filesystem-hostile characters with "_".
func Flatten(rel, sep string) string {
	flat := rel
	if os.PathSeparator != '/' {
		flat = strings.ReplaceAll(flat, string(os.PathSeparator), sep)
	}
	flat = strings.ReplaceAll(flat, "/", sep)
	return hostile.Replace(flat)
}

// SplitExt splits name into base and extension. A leading run of dots is
// part of the base, so ".bashrc" has no extension.
func SplitExt(name string) (base, ext string) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || strings.TrimLeft(name[:dot], ".") == "" {
		return name, ""
	}
	return name[:dot], name[dot:]
}

// 🏷️ Namer owns the used-name set and the collision counter of one run.
//
// It is not safe for concurrent use; the walker claims every name from a
// single goroutine.
type Namer struct {
	used       map[string]struct{}
	counter    int
	collisions int
}

// NewNamer returns a Namer with reserved names already claimed.
func NewNamer(reserved ...string) *Namer {
	n := &Namer{used: make(map[string]struct{}, 64)}
	for _, name := range reserved {
		n.used[name] = struct{}{}
	}
	return n
}

// ResolveCollision derives a new candidate from candidate. The tag hashes the
// candidate together with the current counter, so repeated calls for the same
// candidate always produce different names.
func (n *Namer) ResolveCollision(candidate string) string {
	base, ext := SplitExt(candidate)
	sum := md5.Sum([]byte(candidate + strconv.Itoa(n.counter)))
	n.counter++
	return base + "_" + hex.EncodeToString(sum[:])[:6] + ext
}

// Claim reserves a unique name for candidate, resolving collisions until the
// name is unused. collided reports whether the name differs from candidate.
func (n *Namer) Claim(candidate string) (name string, collided bool) {
	name = candidate
	for n.Used(name) {
		name = n.ResolveCollision(candidate)
		collided = true
	}
	n.used[name] = struct{}{}
	if collided {
		n.collisions++
	}
	return name, collided
}

// Used reports whether name has been claimed.
func (n *Namer) Used(name string) bool {
	_, ok := n.used[name]
	return ok
}

// Len is the number of claimed names, reserved ones included.
func (n *Namer) Len() int {
	return len(n.used)
}

// Collisions is the number of Claim calls that had to rename.
func (n *Namer) Collisions() int {
	return n.collisions
}
