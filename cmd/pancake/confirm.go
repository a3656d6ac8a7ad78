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

	"github.com/pterm/pterm"
	"github.com/walteh/pancake/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ❓ terminalConfirmer asks on the terminal before an output directory is cleared
type terminalConfirmer struct{}

var _ operation.Confirmer = terminalConfirmer{}

func (terminalConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.Errorf("confirm cancelled: %w", err)
	}
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(message)
	if err != nil {
		return false, errors.Errorf("reading confirmation: %w", err)
	}
	return ok, nil
}
