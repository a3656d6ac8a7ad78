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

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/walteh/pancake/pkg/config"
	"github.com/walteh/pancake/pkg/exclude"
	"github.com/walteh/pancake/pkg/log"
	"github.com/walteh/pancake/pkg/operation"
	"github.com/walteh/pancake/pkg/report"
	"github.com/walteh/pancake/pkg/status"
	"github.com/walteh/pancake/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 🚩 flag names mapped to config keys
var flagKeys = map[string]string{
	"output-dir":     config.KeyOutput,
	"exclude":        config.KeyExclude,
	"max-size":       config.KeyMaxSizeKB,
	"include-binary": config.KeyIncludeBinary,
	"separator":      config.KeySeparator,
	"force":          config.KeyForce,
	"no-defaults":    config.KeyNoDefaults,
	"encoding":       config.KeyEncoding,
	"jobs":           config.KeyJobs,
	"tree-command":   config.KeyTreeCommand,
	"no-tree":        config.KeyNoTree,
	"debug":          config.KeyDebug,
	"verbose":        config.KeyVerbose,
}

// 🖥️ streams are the command's standard streams
type streams struct {
	out         io.Writer
	err         io.Writer
	interactive bool
}

// newRootCmd builds the pancake command
func newRootCmd(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pancake <source-dir>",
		Short: "Flatten a directory tree into one folder for uploading",
		Long: `pancake copies every relevant file of a project into a single flat directory,
encoding each file's original path into its name, and writes a directory
structure, a project context and an exclusion report next to the copies.

Settings are read, lowest precedence first, from the built-in defaults, a
.pancake.{yaml,yml,hcl,json} file in the source directory, PANCAKE_*
environment variables and the command line flags.`,
		Version:       GetVersionInfo().Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			return run(cmd.Context(), s, cfg)
		},
	}

	cmd.SetOut(s.out)
	cmd.SetErr(s.err)

	addRootFlags(cmd.Flags())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// addRootFlags adds the run flags
func addRootFlags(flags *pflag.FlagSet) {
	d := config.Default()
	flags.StringP("config", "c", "", "config file path (default <source>/.pancake.{yaml,yml,hcl,json})")
	flags.StringP("output-dir", "o", "", `output directory (default "<source>/pancaked")`)
	flags.StringArrayP("exclude", "e", nil, "additional pattern to exclude (repeatable)")
	flags.Int64P("max-size", "m", d.MaxSizeKB, "maximum file size in KiB")
	flags.BoolP("include-binary", "b", false, "include binary files")
	flags.StringP("separator", "s", d.Separator, "separator for path components in file names")
	flags.Bool("no-gitignore", false, "do not read .gitignore files")
	flags.BoolP("force", "f", false, "clear a non-empty output directory without asking")
	flags.Bool("no-defaults", false, "do not apply the default exclusion patterns")
	flags.String("encoding", d.Encoding, "text encoding used to detect binary files")
	flags.IntP("jobs", "j", d.Jobs, "number of concurrent copies")
	flags.String("tree-command", d.TreeCommand, "program used to render the directory structure")
	flags.Bool("no-tree", false, "render the directory structure without the tree program")
	flags.BoolP("debug", "d", false, "enable debug logging")
	flags.BoolP("verbose", "v", false, "print one line per file")
}

// 🧩 loadConfig layers defaults, the project config file, PANCAKE_*
// environment variables and flags into one resolved Config.
func loadConfig(ctx context.Context, flags *pflag.FlagSet, source string) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PANCAKE")
	v.AutomaticEnv()

	for key, value := range config.Defaults() {
		v.SetDefault(key, value)
	}

	path, _ := flags.GetString("config")
	if path == "" {
		path, _ = config.Discover(source)
	}
	if path != "" {
		f, err := config.Load(ctx, path)
		if err != nil {
			return nil, errors.Errorf("loading config file: %w", err)
		}
		if err := v.MergeConfigMap(f.Settings()); err != nil {
			return nil, errors.Errorf("merging config file: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("path", f.Location()).Msg("using config file")
	}

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, errors.Errorf("binding flag %s: %w", name, err)
		}
	}

	if flags.Changed("no-gitignore") {
		noIgnore, _ := flags.GetBool("no-gitignore")
		v.Set(config.KeyUseIgnoreFile, !noIgnore)
	}
	v.Set(config.KeySource, source)

	cfg := config.Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Errorf("%w: %s", config.ErrInvalidConfig, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// 🏃 run executes one flatten and prints the summary
func run(ctx context.Context, s streams, cfg *config.Config) error {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.Ctx(ctx).Level(level)
	ctx = logger.WithContext(ctx)

	console := log.New(s.out, logger)
	ctx = log.NewContext(ctx, console)

	var reporter status.Reporter = console
	if !cfg.Verbose {
		reporter = status.NewReporter(ctx, s.out, false)
	}

	var confirmer operation.Confirmer
	if s.interactive {
		confirmer = terminalConfirmer{}
	}

	op, err := operation.NewFlattenOperation(operation.Options{
		Config:    cfg,
		Confirmer: confirmer,
		Reporter:  reporter,
		Scan:      !cfg.Verbose,
		Version:   GetVersionInfo().Version,
	})
	if err != nil {
		return err
	}

	console.Header("flattening directory")
	console.StartRun(ctx, log.RunOperation{
		Source: cfg.Source,
		Output: cfg.Output,
	})
	defer console.EndRun(ctx)

	runner := operation.NewRunner(&logger, true)
	if err := runner.Run(ctx, op); err != nil {
		if errors.Is(err, operation.ErrOverwriteDeclined) {
			console.Warningf("Output directory %s is not empty; rerun with --force to clear it", op.Config().Output)
		}
		return err
	}

	sess := op.Session()
	stats := sess.Stats()

	console.Successf("Directory structure flattened successfully to %s", op.Config().Output)
	console.Infof("Processed: %d files", stats.FilesCopied)
	console.Infof("Skipped: %d files, %d directories", stats.FilesSkipped, stats.DirsSkipped)
	console.Infof("Filename collisions resolved: %d", stats.Collisions)
	failed := lo.CountBy(sess.FilesSkipped(), func(r walk.SkipRecord) bool {
		return r.Kind == exclude.ReasonError
	})
	if failed > 0 {
		console.Warningf("%d files could not be read or copied; see %s", failed, report.ExcludedFile)
	}
	console.Infof("Run %s", sess.ID)

	return nil
}

// exitCode maps a run error to a process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "pancake: %s\n", err)
}

func isInteractive() bool {
	return status.IsTerminal(os.Stdin) && status.IsTerminal(os.Stdout)
}
