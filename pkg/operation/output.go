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

package operation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// LockPath is where the run lock for an output directory lives. The name is
// derived from the output path so two runs into the same directory share it
// and the lock never shows up inside the output.
func LockPath(output string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.Clean(output)))
	return filepath.Join(os.TempDir(), fmt.Sprintf("pancake-%s.lock", id))
}

// 🔒 lockOutput takes the exclusive run lock for output
func lockOutput(ctx context.Context, output string) (func(), error) {
	logger := zerolog.Ctx(ctx)

	path := LockPath(output)
	lock := flock.New(path)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Errorf("acquiring lock %s: %w", path, err)
	}
	if !locked {
		return nil, errors.Errorf("%w: %s", ErrOutputLocked, output)
	}

	logger.Debug().Str("lock", path).Msg("output locked")

	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn().Err(err).Str("lock", path).Msg("releasing output lock")
		}
	}, nil
}

// 📁 prepareOutput makes sure the output directory exists and is empty. A
// non-empty directory is cleared only with force or the confirmer's consent.
func (op *FlattenOperation) prepareOutput(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	output := op.cfg.Output

	entries, err := os.ReadDir(output)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return errors.Errorf("reading output directory: %w", err)
	case len(entries) > 0:
		if !op.cfg.Force {
			ok, err := op.confirmOverwrite(ctx, len(entries))
			if err != nil {
				return err
			}
			if !ok {
				return errors.Errorf("%w: %s", ErrOverwriteDeclined, output)
			}
		}

		logger.Info().Str("output", output).Int("entries", len(entries)).Msg("clearing output directory")
		for _, e := range entries {
			if err := os.RemoveAll(filepath.Join(output, e.Name())); err != nil {
				return errors.Errorf("clearing output directory: %w", err)
			}
		}
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		return errors.Errorf("creating output directory: %w", err)
	}
	return nil
}

func (op *FlattenOperation) confirmOverwrite(ctx context.Context, n int) (bool, error) {
	if op.confirmer == nil {
		return false, nil
	}
	msg := fmt.Sprintf("Output directory %s is not empty (%d entries). Clear it?", op.cfg.Output, n)
	ok, err := op.confirmer.Confirm(ctx, msg)
	if err != nil {
		return false, errors.Errorf("asking for overwrite permission: %w", err)
	}
	return ok, nil
}
