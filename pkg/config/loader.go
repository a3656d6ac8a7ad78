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

package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// FileNames are the project config file names looked up in the source
// directory, in order.
var FileNames = []string{
	".pancake.yaml",
	".pancake.yml",
	".pancake.hcl",
	".pancake.json",
}

// 🎯 Load loads a project config file. The format is picked by extension.
func Load(ctx context.Context, path string) (*File, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%w: no parser for %s", ErrInvalidConfig, filepath.Base(path))
	}

	f, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrInvalidConfig, path, err.Error())
	}
	f.location = path

	return f, nil
}

// 🔍 Discover returns the first project config file present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
