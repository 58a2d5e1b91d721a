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

// Package outcome defines the per-file record a run produces and the sinks
// that receive it.
package outcome

import (
	"context"
	"time"

	"github.com/walteh/datesort/pkg/hash"
	"gitlab.com/tozd/go/errors"
)

// Remark is what happened to a source file.
type Remark int

const (
	RemarkUnknown Remark = iota
	Copied               // canonical file copied into the destination
	AlreadyExists        // content already present in the destination
	DuplicateFile        // same content as the group's canonical file
	Error                // copy or directory creation failed
)

func (r Remark) String() string {
	switch r {
	case Copied:
		return "Copied"
	case AlreadyExists:
		return "AlreadyExists"
	case DuplicateFile:
		return "DuplicateFile"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

func (r Remark) MarshalText() ([]byte, error) {
	if r == RemarkUnknown {
		return nil, errors.Errorf("unknown remark %d", int(r))
	}
	return []byte(r.String()), nil
}

// 📝 Record is emitted once per source file. Records are never mutated after
// creation.
type Record struct {
	SequenceNo       int           `json:"sequence_no"`
	Identity         hash.Identity `json:"identity"`
	CountWithinGroup int           `json:"count_within_group"`
	Filename         string        `json:"filename"`
	SourcePath       string        `json:"source_path"`
	DestinationPath  string        `json:"destination_path"`
	ModifiedAt       time.Time     `json:"modified_at"`
	Remark           Remark        `json:"remark"`
	Detail           string        `json:"detail,omitempty"`
}

// Sink receives records in emission order.
type Sink interface {
	Emit(ctx context.Context, rec Record) error
	Close() error
}

// 🧺 Collector keeps every record in memory
type Collector struct {
	Records []Record
}

var _ Sink = (*Collector)(nil)

func (c *Collector) Emit(_ context.Context, rec Record) error {
	c.Records = append(c.Records, rec)
	return nil
}

func (c *Collector) Close() error { return nil }

// ByRemark returns the collected records with remark r.
func (c *Collector) ByRemark(r Remark) []Record {
	var out []Record
	for _, rec := range c.Records {
		if rec.Remark == r {
			out = append(out, rec)
		}
	}
	return out
}

// MultiSink fans every record out to each sink in order.
type MultiSink []Sink

func (m MultiSink) Emit(ctx context.Context, rec Record) error {
	for _, s := range m {
		if err := s.Emit(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and returns the first error.
func (m MultiSink) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Tally counts records per remark.
type Tally map[Remark]int

func (t Tally) Add(r Remark) { t[r]++ }

func (t Tally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}
