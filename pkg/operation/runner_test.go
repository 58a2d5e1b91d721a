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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type stubOperation struct {
	err   error
	calls int
}

func (s *stubOperation) Name() string { return "stub" }

func (s *stubOperation) Execute(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestRunner(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "success", wantMsg: "operation finished"},
		{name: "failure", err: errors.New("boom"), wantMsg: "operation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			r := NewRunner(&logger, "run-1")

			start := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
			ticks := []time.Time{start, start.Add(1500 * time.Millisecond)}
			r.now = func() time.Time {
				next := ticks[0]
				ticks = ticks[1:]
				return next
			}

			op := &stubOperation{err: tt.err}
			elapsed, err := r.Run(context.Background(), op)

			assert.Equal(t, 1, op.calls, "operation should run once")
			assert.Equal(t, 1500*time.Millisecond, elapsed, "elapsed should be measured")
			assert.Contains(t, buf.String(), tt.wantMsg)
			assert.Contains(t, buf.String(), `"run_id":"run-1"`)
			if tt.err != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.err, "cause should be preserved")
				assert.Contains(t, err.Error(), "executing stub")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNested(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		root string
		want []string
	}{
		{name: "inside", dir: "/a/b/c", root: "/a/b", want: []string{"/a/b/c"}},
		{name: "same", dir: "/a/b", root: "/a/b"},
		{name: "sibling", dir: "/a/c", root: "/a/b"},
		{name: "parent", dir: "/a", root: "/a/b"},
		{name: "dotted_child", dir: "/a/..b", root: "/a", want: []string{"/a/..b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nested(tt.dir, tt.root))
		})
	}
}
