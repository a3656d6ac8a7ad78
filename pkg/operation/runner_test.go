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
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type operationFunc func(ctx context.Context) error

func (f operationFunc) Execute(ctx context.Context) error { return f(ctx) }

func TestRunner(t *testing.T) {
	tests := []struct {
		name    string
		async   bool
		op      operationFunc
		wantErr error
	}{
		{
			name:  "sync_success",
			async: false,
			op:    func(ctx context.Context) error { return nil },
		},
		{
			name:    "sync_failure",
			async:   false,
			op:      func(ctx context.Context) error { return assert.AnError },
			wantErr: assert.AnError,
		},
		{
			name:  "async_success",
			async: true,
			op:    func(ctx context.Context) error { return nil },
		},
		{
			name:    "async_failure",
			async:   true,
			op:      func(ctx context.Context) error { return assert.AnError },
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.New(zerolog.NewTestWriter(t))
			err := NewRunner(&logger, tt.async).Run(context.Background(), tt.op)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRunnerAsyncCancelled(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	defer close(release)

	op := operationFunc(func(ctx context.Context) error {
		<-release
		return nil
	})

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := NewRunner(&logger, true).Run(ctx, op)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
