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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.Base("invalid configuration")
	// ErrSourceNotDirectory is returned when the source is missing or a file.
	ErrSourceNotDirectory = errors.Base("source is not a directory")
)

// Setting keys, shared by config files, environment variables and flags.
const (
	KeySource        = "source"
	KeyOutput        = "output"
	KeyExclude       = "exclude"
	KeyMaxSizeKB     = "max_size_kb"
	KeyIncludeBinary = "include_binary"
	KeySeparator     = "separator"
	KeyUseIgnoreFile = "use_ignore_file"
	KeyForce         = "force"
	KeyNoDefaults    = "no_defaults"
	KeyEncoding      = "encoding"
	KeyJobs          = "jobs"
	KeyTreeCommand   = "tree_command"
	KeyNoTree        = "no_tree"
	KeyDebug         = "debug"
	KeyVerbose       = "verbose"
)

// Defaults
const (
	DefaultOutputName  = "pancaked"
	DefaultMaxSizeKB   = 1024
	DefaultSeparator   = "_"
	DefaultEncoding    = "utf-8"
	DefaultJobs        = 1
	DefaultTreeCommand = "tree"
)

// 📚 Config is the resolved configuration of one run.
type Config struct {
	Source        string   `mapstructure:"source"`
	Output        string   `mapstructure:"output"`
	Exclude       []string `mapstructure:"exclude"`
	MaxSizeKB     int64    `mapstructure:"max_size_kb"`
	IncludeBinary bool     `mapstructure:"include_binary"`
	Separator     string   `mapstructure:"separator"`
	UseIgnoreFile bool     `mapstructure:"use_ignore_file"`
	Force         bool     `mapstructure:"force"`
	NoDefaults    bool     `mapstructure:"no_defaults"`
	Encoding      string   `mapstructure:"encoding"`
	Jobs          int      `mapstructure:"jobs"`
	TreeCommand   string   `mapstructure:"tree_command"`
	NoTree        bool     `mapstructure:"no_tree"`
	Debug         bool     `mapstructure:"debug"`
	Verbose       bool     `mapstructure:"verbose"`
}

// 🏭 Default returns the built-in defaults. Output is left empty and derived
// from Source by Resolve.
func Default() *Config {
	return &Config{
		MaxSizeKB:     DefaultMaxSizeKB,
		Separator:     DefaultSeparator,
		UseIgnoreFile: true,
		Encoding:      DefaultEncoding,
		Jobs:          DefaultJobs,
		TreeCommand:   DefaultTreeCommand,
	}
}

// Defaults returns the default settings keyed like a config file.
func Defaults() map[string]any {
	d := Default()
	return map[string]any{
		KeyMaxSizeKB:     d.MaxSizeKB,
		KeySeparator:     d.Separator,
		KeyUseIgnoreFile: d.UseIgnoreFile,
		KeyEncoding:      d.Encoding,
		KeyJobs:          d.Jobs,
		KeyTreeCommand:   d.TreeCommand,
		KeyIncludeBinary: false,
		KeyForce:         false,
		KeyNoDefaults:    false,
		KeyNoTree:        false,
		KeyDebug:         false,
		KeyVerbose:       false,
	}
}

// 🔍 Validate checks required fields and ranges.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Source) == "" {
		return errors.Errorf("%w: source directory is required", ErrInvalidConfig)
	}
	if cfg.MaxSizeKB <= 0 {
		return errors.Errorf("%w: max_size_kb must be positive, got %d", ErrInvalidConfig, cfg.MaxSizeKB)
	}
	if cfg.Jobs < 1 {
		return errors.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidConfig, cfg.Jobs)
	}
	if strings.TrimSpace(cfg.Encoding) == "" {
		return errors.Errorf("%w: encoding must not be empty", ErrInvalidConfig)
	}
	return nil
}

// 🧭 Resolve validates cfg, makes paths absolute and fills the default output
// directory. The source must be an existing directory, and the output may
// neither be the source nor contain it.
func (cfg *Config) Resolve() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, err := filepath.Abs(cfg.Source)
	if err != nil {
		return errors.Errorf("resolving source: %w", err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("%w: %s", ErrSourceNotDirectory, err.Error())
	}
	if !info.IsDir() {
		return errors.Errorf("%w: %s", ErrSourceNotDirectory, src)
	}
	cfg.Source = src

	if cfg.Output == "" {
		cfg.Output = filepath.Join(src, DefaultOutputName)
	}
	out, err := filepath.Abs(cfg.Output)
	if err != nil {
		return errors.Errorf("resolving output: %w", err)
	}
	cfg.Output = out

	if out == src {
		return errors.Errorf("%w: output directory must differ from the source", ErrInvalidConfig)
	}
	if rel, err := filepath.Rel(out, src); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Errorf("%w: source %s lies inside output %s", ErrInvalidConfig, src, out)
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (sep=%q, max=%dKiB, jobs=%d)", cfg.Source, cfg.Output, cfg.Separator, cfg.MaxSizeKB, cfg.Jobs)
}
