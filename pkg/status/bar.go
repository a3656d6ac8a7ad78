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
	"context"
	"io"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📶 BarReporter draws a pterm progress bar on a terminal.
type BarReporter struct {
	w io.Writer

	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

// NewBarReporter creates a bar reporter drawing to w.
func NewBarReporter(w io.Writer) *BarReporter {
	return &BarReporter{w: w}
}

func (r *BarReporter) StartOperation(ctx context.Context, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if total <= 0 {
		total = 1
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Flattening").
		WithWriter(r.w).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("progress bar unavailable")
		return
	}
	r.bar = bar
}

func (r *BarReporter) TrackFile(ctx context.Context, ev FileEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar == nil {
		return
	}
	if r.bar.Current >= r.bar.Total {
		// the scan is an estimate; grow rather than overflow
		r.bar.Total = r.bar.Current + 1
	}
	r.bar.UpdateTitle(ev.Path)
	r.bar.Increment()
}

func (r *BarReporter) FinishOperation(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar == nil {
		return
	}
	if _, err := r.bar.Stop(); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("stopping progress bar")
	}
	r.bar = nil
}
