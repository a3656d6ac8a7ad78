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

package exclude

import (
	"fmt"

	"github.com/walteh/pancake/pkg/pattern"
)

// 🚦 ReasonKind classifies why an entry was left out of the output.
type ReasonKind int

const (
	ReasonNone ReasonKind = iota
	ReasonPattern
	ReasonTooLarge
	ReasonBinary
	ReasonOutputDirectory
	ReasonError // per-item I/O failure
)

func (k ReasonKind) String() string {
	switch k {
	case ReasonPattern:
		return "matched pattern"
	case ReasonTooLarge:
		return "too large"
	case ReasonBinary:
		return "binary"
	case ReasonOutputDirectory:
		return "output directory"
	case ReasonError:
		return "error"
	default:
		return "none"
	}
}

// Decision is the outcome of one exclusion check.
type Decision struct {
	Excluded bool
	Kind     ReasonKind
	Reason   string
	// Pattern is set when Kind is ReasonPattern.
	Pattern *pattern.Pattern
	// Detail carries extra context, such as the sniffed MIME type of a binary file.
	Detail string
	// Size is the file size in bytes when it was read.
	Size int64
}

// Include is the zero-reason decision.
func Include(size int64) Decision {
	return Decision{Size: size}
}

func matchedPattern(p pattern.Pattern) Decision {
	return Decision{
		Excluded: true,
		Kind:     ReasonPattern,
		Reason:   fmt.Sprintf("matched pattern %q (%s)", p.Raw, p.Source),
		Pattern:  &p,
	}
}

func tooLarge(size, limitKiB int64) Decision {
	return Decision{
		Excluded: true,
		Kind:     ReasonTooLarge,
		Reason:   fmt.Sprintf("file too large (%.1f KiB > %d KiB)", float64(size)/1024, limitKiB),
		Size:     size,
	}
}

func binaryFile(size int64, mime string) Decision {
	return Decision{
		Excluded: true,
		Kind:     ReasonBinary,
		Reason:   "binary file",
		Detail:   mime,
		Size:     size,
	}
}

func outputDirectory() Decision {
	return Decision{
		Excluded: true,
		Kind:     ReasonOutputDirectory,
		Reason:   "output directory",
	}
}
