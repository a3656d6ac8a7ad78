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
	"path/filepath"

	"github.com/samber/lo"
)

// baseDefaults are skipped in every project: VCS metadata, dependency caches,
// virtual environments, OS metadata, bytecode and IDE folders.
var baseDefaults = []string{
	".git",
	"__pycache__",
	"node_modules",
	".DS_Store",
	"*.pyc",
	"venv",
	".venv",
	"env",
	".env",
	".idea",
}

// Output directory names used by earlier versions of the tool.
const (
	DefaultOutputName = "pancaked"
	legacyOutputName  = "pancake_output"
)

// DefaultPatterns returns the default pattern group for a run writing into
// outputDir. The output basename and the historical output names are
// included so a run never descends into its own output.
func DefaultPatterns(outputDir string) []string {
	out := append([]string{}, baseDefaults...)
	if base := filepath.Base(filepath.Clean(outputDir)); base != "." && base != string(filepath.Separator) && outputDir != "" {
		out = append(out, base)
	}
	out = append(out, DefaultOutputName, legacyOutputName)
	return lo.Uniq(out)
}
