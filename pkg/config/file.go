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
)

// 📄 File is a project config file. Unset fields are nil so only keys the
// file actually names take part in layering.
type File struct {
	Output        *string  `json:"output,omitempty" yaml:"output,omitempty" hcl:"output,optional"`
	Exclude       []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	MaxSizeKB     *int64   `json:"max_size_kb,omitempty" yaml:"max_size_kb,omitempty" hcl:"max_size_kb,optional"`
	IncludeBinary *bool    `json:"include_binary,omitempty" yaml:"include_binary,omitempty" hcl:"include_binary,optional"`
	Separator     *string  `json:"separator,omitempty" yaml:"separator,omitempty" hcl:"separator,optional"`
	UseIgnoreFile *bool    `json:"use_ignore_file,omitempty" yaml:"use_ignore_file,omitempty" hcl:"use_ignore_file,optional"`
	Force         *bool    `json:"force,omitempty" yaml:"force,omitempty" hcl:"force,optional"`
	NoDefaults    *bool    `json:"no_defaults,omitempty" yaml:"no_defaults,omitempty" hcl:"no_defaults,optional"`
	Encoding      *string  `json:"encoding,omitempty" yaml:"encoding,omitempty" hcl:"encoding,optional"`
	Jobs          *int     `json:"jobs,omitempty" yaml:"jobs,omitempty" hcl:"jobs,optional"`
	TreeCommand   *string  `json:"tree_command,omitempty" yaml:"tree_command,omitempty" hcl:"tree_command,optional"`
	NoTree        *bool    `json:"no_tree,omitempty" yaml:"no_tree,omitempty" hcl:"no_tree,optional"`

	// location is the path the file was loaded from
	location string
}

// Location returns the path the file was loaded from.
func (f *File) Location() string {
	return f.location
}

// 🗺️ Settings returns the keys the file sets.
func (f *File) Settings() map[string]any {
	m := map[string]any{}

	if f.Output != nil {
		m[KeyOutput] = *f.Output
	}
	if f.Exclude != nil {
		m[KeyExclude] = f.Exclude
	}
	if f.MaxSizeKB != nil {
		m[KeyMaxSizeKB] = *f.MaxSizeKB
	}
	if f.IncludeBinary != nil {
		m[KeyIncludeBinary] = *f.IncludeBinary
	}
	if f.Separator != nil {
		m[KeySeparator] = *f.Separator
	}
	if f.UseIgnoreFile != nil {
		m[KeyUseIgnoreFile] = *f.UseIgnoreFile
	}
	if f.Force != nil {
		m[KeyForce] = *f.Force
	}
	if f.NoDefaults != nil {
		m[KeyNoDefaults] = *f.NoDefaults
	}
	if f.Encoding != nil {
		m[KeyEncoding] = *f.Encoding
	}
	if f.Jobs != nil {
		m[KeyJobs] = *f.Jobs
	}
	if f.TreeCommand != nil {
		m[KeyTreeCommand] = *f.TreeCommand
	}
	if f.NoTree != nil {
		m[KeyNoTree] = *f.NoTree
	}

	return m
}

// 🔀 Apply overlays the keys the file sets onto cfg.
func (f *File) Apply(cfg *Config) {
	if f.Output != nil {
		cfg.Output = *f.Output
	}
	if f.Exclude != nil {
		cfg.Exclude = append([]string(nil), f.Exclude...)
	}
	if f.MaxSizeKB != nil {
		cfg.MaxSizeKB = *f.MaxSizeKB
	}
	if f.IncludeBinary != nil {
		cfg.IncludeBinary = *f.IncludeBinary
	}
	if f.Separator != nil {
		cfg.Separator = *f.Separator
	}
	if f.UseIgnoreFile != nil {
		cfg.UseIgnoreFile = *f.UseIgnoreFile
	}
	if f.Force != nil {
		cfg.Force = *f.Force
	}
	if f.NoDefaults != nil {
		cfg.NoDefaults = *f.NoDefaults
	}
	if f.Encoding != nil {
		cfg.Encoding = *f.Encoding
	}
	if f.Jobs != nil {
		cfg.Jobs = *f.Jobs
	}
	if f.TreeCommand != nil {
		cfg.TreeCommand = *f.TreeCommand
	}
	if f.NoTree != nil {
		cfg.NoTree = *f.NoTree
	}
}

// 🔌 Parser is the interface for config file parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*File, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}
