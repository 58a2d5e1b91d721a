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

package report

import (
	"context"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/walteh/datesort/pkg/outcome"
	"gitlab.com/tozd/go/errors"
)

type jsonlRecord struct {
	RunID string `json:"run_id"`
	outcome.Record
}

// JSONL writes one JSON object per line, each stamped with the run id.
type JSONL struct {
	runID   string
	enc     *json.Encoder
	closers []io.Closer
}

var _ outcome.Sink = (*JSONL)(nil)

// NewJSONL writes plain JSON lines to w.
func NewJSONL(w io.Writer, runID string) *JSONL {
	j := &JSONL{runID: runID, enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		j.closers = append(j.closers, c)
	}
	return j
}

// 🗜️ NewJSONLZstd compresses the lines with zstd before writing them to w.
func NewJSONLZstd(w io.Writer, runID string) (*JSONL, error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return nil, errors.Errorf("creating zstd writer: %w", err)
	}
	j := &JSONL{runID: runID, enc: json.NewEncoder(zw), closers: []io.Closer{zw}}
	if c, ok := w.(io.Closer); ok {
		j.closers = append(j.closers, c)
	}
	return j, nil
}

func (j *JSONL) Emit(_ context.Context, rec outcome.Record) error {
	if err := j.enc.Encode(jsonlRecord{RunID: j.runID, Record: rec}); err != nil {
		return errors.Errorf("writing jsonl record: %w", err)
	}
	return nil
}

// Close flushes the compressor (if any) before closing the file.
func (j *JSONL) Close() error {
	var first error
	for _, c := range j.closers {
		if err := c.Close(); err != nil && first == nil {
			first = errors.Errorf("closing jsonl report: %w", err)
		}
	}
	return first
}
