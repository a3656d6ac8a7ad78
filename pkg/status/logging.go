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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 40 // Base width for the source path
	outcomeWidth = 10 // Width for outcome text
)

// 🎯 FormatFileLine formats a file outcome for verbose console display
func FormatFileLine(ev FileEvent) string {
	var prefix string
	switch ev.Outcome {
	case OutcomeCopied:
		prefix = color.GreenString("✓")
	case OutcomeRenamed:
		prefix = color.YellowString("⟳")
	case OutcomeFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, ev.Path)
	outcomePart := fmt.Sprintf("%-*s", outcomeWidth, ev.Outcome)

	detail := ev.Name
	if ev.Outcome == OutcomeSkipped || ev.Outcome == OutcomeFailed {
		detail = color.HiBlackString(ev.Reason)
	}

	return strings.TrimRight(fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		outcomePart,
		detail,
	), " ")
}
