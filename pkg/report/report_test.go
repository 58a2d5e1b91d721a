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
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/datesort/pkg/log"
	"github.com/walteh/datesort/pkg/outcome"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []outcome.Record {
	at := func(h int) time.Time { return time.Date(2023, time.January, 5, h, 0, 0, 0, time.UTC) }
	return []outcome.Record{
		{
			SequenceNo: 1, Identity: "h1", CountWithinGroup: 1,
			Filename: "a.jpg", SourcePath: "/src/a.jpg",
			DestinationPath: "/dest/2023/Jan/2023-Jan-05_09.00.00.jpg",
			ModifiedAt:      at(10), Remark: outcome.DuplicateFile,
		},
		{
			SequenceNo: 2, Identity: "h1", CountWithinGroup: 2,
			Filename: "b.jpg", SourcePath: "/src/b.jpg",
			DestinationPath: "/dest/2023/Jan/2023-Jan-05_09.00.00.jpg",
			ModifiedAt:      at(9), Remark: outcome.Copied,
		},
		{
			SequenceNo: 3, Identity: "h2", CountWithinGroup: 1,
			Filename: "c, final.jpg", SourcePath: "/src/c, final.jpg",
			DestinationPath: "/dest/2023/Jan/2023-Jan-05_11.00.00.jpg",
			ModifiedAt:      at(11), Remark: outcome.Error, Detail: "copy error: disk full",
		},
	}
}

func emitAll(t *testing.T, sink outcome.Sink) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range sampleRecords() {
		require.NoError(t, sink.Emit(ctx, rec), "emit should succeed")
	}
	require.NoError(t, sink.Close(), "close should succeed")
}

type nopCloser struct {
	*bytes.Buffer
	closed bool
}

func (n *nopCloser) Close() error {
	n.closed = true
	return nil
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    Format
		wantErr bool
	}{
		{name: "xlsx", path: "/d/File_organization_1.xlsx", want: FormatXLSX},
		{name: "upper_case_csv", path: "/d/REPORT.CSV", want: FormatCSV},
		{name: "jsonl", path: "/d/run.jsonl", want: FormatJSONL},
		{name: "jsonl_zst", path: "/d/run.jsonl.zst", want: FormatJSONLZst},
		{name: "jsonl_zstd", path: "/d/run.jsonl.zstd", want: FormatJSONLZst},
		{name: "unsupported", path: "/d/run.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				assert.Error(t, err, "should reject %s", tt.path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	now := time.Unix(0, 1700000000123456789)
	assert.Equal(t, filepath.Join("/dest", "File_organization_1700000000123456789.xlsx"), DefaultPath("/dest", now))
}

func TestCSV(t *testing.T) {
	buf := &nopCloser{Buffer: &bytes.Buffer{}}
	emitAll(t, NewCSV(buf))
	assert.True(t, buf.closed, "underlying writer should be closed")

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "records_csv", buf.Bytes())
}

func TestCSVHeaderOnEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSV(&buf).Close())
	assert.Equal(t, strings.Join(Columns, ",")+"\n", buf.String())
}

func TestJSONL(t *testing.T) {
	var buf bytes.Buffer
	emitAll(t, NewJSONL(&buf, "run-1"))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "records_jsonl", buf.Bytes())
}

func TestJSONLZstdRoundTrip(t *testing.T) {
	var plain, compressed bytes.Buffer
	emitAll(t, NewJSONL(&plain, "run-1"))

	sink, err := NewJSONLZstd(&compressed, "run-1")
	require.NoError(t, err)
	emitAll(t, sink)

	dec, err := zstd.NewReader(&compressed)
	require.NoError(t, err)
	defer dec.Close()

	got, err := io.ReadAll(dec)
	require.NoError(t, err)
	assert.Equal(t, plain.String(), string(got), "decompressed manifest should match plain output")
}

func TestXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "File_organization_1.xlsx")
	sink, err := NewXLSX(path)
	require.NoError(t, err)
	emitAll(t, sink)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList(), "workbook should have a single sheet")

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus one row per record")
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"2", "2023-01-05 09:00:00", "b.jpg", "/src/b.jpg",
		"/dest/2023/Jan/2023-Jan-05_09.00.00.jpg", "Copied", "h1", "2"}, rows[2][:8])
	assert.Equal(t, "copy error: disk full", rows[3][8])
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "csv", file: "out.csv"},
		{name: "jsonl", file: "out.jsonl"},
		{name: "jsonl_zst", file: "out.jsonl.zst"},
		{name: "xlsx", file: "out.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "reports", tt.file)
			sink, err := Open(path, Options{RunID: "run-1"})
			require.NoError(t, err, "open should create parent directories")
			emitAll(t, sink)

			info, err := os.Stat(path)
			require.NoError(t, err, "report should exist after close")
			assert.Positive(t, info.Size(), "report should not be empty")
		})
	}
}

func TestOpenRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	_, err := Open(path, Options{})
	assert.Error(t, err, "existing report should not be overwritten")
}

func TestConsole(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	var buf bytes.Buffer
	ctx = log.NewContext(ctx, log.New(ctx, &buf))

	sink := &Console{}
	for _, rec := range sampleRecords() {
		require.NoError(t, sink.Emit(ctx, rec))
	}
	require.NoError(t, sink.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "b.jpg")
	assert.Contains(t, lines[1], "Copied")
	assert.Contains(t, lines[2], "Error")
}
