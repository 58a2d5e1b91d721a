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

package outcome

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type failingSink struct {
	Collector
	emitErr  error
	closeErr error
	closed   bool
}

func (f *failingSink) Emit(ctx context.Context, rec Record) error {
	if f.emitErr != nil {
		return f.emitErr
	}
	return f.Collector.Emit(ctx, rec)
}

func (f *failingSink) Close() error {
	f.closed = true
	return f.closeErr
}

func TestRemarkString(t *testing.T) {
	assert.Equal(t, "Copied", Copied.String())
	assert.Equal(t, "AlreadyExists", AlreadyExists.String())
	assert.Equal(t, "DuplicateFile", DuplicateFile.String())
	assert.Equal(t, "Error", Error.String())
	assert.Equal(t, "Unknown", RemarkUnknown.String())
}

func TestRecordJSON(t *testing.T) {
	rec := Record{
		SequenceNo:       1,
		Identity:         "abc",
		CountWithinGroup: 2,
		Filename:         "a.jpg",
		SourcePath:       "/src/a.jpg",
		DestinationPath:  "/dest/2023/Jan/x.jpg",
		ModifiedAt:       time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC),
		Remark:           DuplicateFile,
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"sequence_no": 1,
		"identity": "abc",
		"count_within_group": 2,
		"filename": "a.jpg",
		"source_path": "/src/a.jpg",
		"destination_path": "/dest/2023/Jan/x.jpg",
		"modified_at": "2023-01-05T00:00:00Z",
		"remark": "DuplicateFile"
	}`, string(data))

	_, err = json.Marshal(Record{})
	assert.Error(t, err, "records without a remark are rejected")
}

func TestMultiSink(t *testing.T) {
	ctx := context.Background()
	a := &Collector{}
	b := &failingSink{closeErr: errors.New("close b")}
	c := &failingSink{closeErr: errors.New("close c")}

	m := MultiSink{a, b, c}
	require.NoError(t, m.Emit(ctx, Record{SequenceNo: 1, Remark: Copied}))
	assert.Len(t, a.Records, 1)
	assert.Len(t, b.Records, 1)

	err := m.Close()
	assert.EqualError(t, err, "close b", "first close error wins")
	assert.True(t, b.closed)
	assert.True(t, c.closed, "every sink is closed")

	broken := MultiSink{&failingSink{emitErr: errors.New("disk full")}, a}
	assert.Error(t, broken.Emit(ctx, Record{SequenceNo: 2, Remark: Copied}))
	assert.Len(t, a.Records, 1, "emission stops at the failing sink")
}

func TestCollectorAndTally(t *testing.T) {
	ctx := context.Background()
	c := &Collector{}
	tally := Tally{}
	for i, r := range []Remark{Copied, DuplicateFile, DuplicateFile, Error} {
		require.NoError(t, c.Emit(ctx, Record{SequenceNo: i + 1, Remark: r}))
		tally.Add(r)
	}

	assert.Len(t, c.ByRemark(DuplicateFile), 2)
	assert.Empty(t, c.ByRemark(AlreadyExists))
	assert.Equal(t, 4, tally.Total())
	assert.Equal(t, 2, tally[DuplicateFile])
}
