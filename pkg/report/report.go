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

// Package report turns outcome records into manifests: an XLSX workbook, a
// CSV file or JSON lines (optionally zstd-compressed), plus a console sink.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/walteh/datesort/pkg/outcome"
	"gitlab.com/tozd/go/errors"
)

// Format is a manifest encoding, picked from the report file extension.
type Format string

const (
	FormatXLSX     Format = "xlsx"
	FormatCSV      Format = "csv"
	FormatJSONL    Format = "jsonl"
	FormatJSONLZst Format = "jsonl.zst"
)

// ModifiedLayout renders the modification time column.
const ModifiedLayout = time.DateTime

// Columns is the manifest header, shared by the tabular formats.
var Columns = []string{"#", "Modified", "Filename", "Source", "Destination", "Remarks", "Identity", "Count", "Detail"}

// Options configures the manifest writers.
type Options struct {
	// RunID is stamped into every JSONL record.
	RunID string
}

// FormatOf picks the format for path by extension.
func FormatOf(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return FormatXLSX, nil
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(lower, ".jsonl"):
		return FormatJSONL, nil
	case strings.HasSuffix(lower, ".jsonl.zst"), strings.HasSuffix(lower, ".jsonl.zstd"):
		return FormatJSONLZst, nil
	}
	return "", errors.Errorf("unsupported report format for %q (want .xlsx, .csv, .jsonl or .jsonl.zst)", path)
}

// DefaultPath is File_organization_<unix nanos>.xlsx under dir.
func DefaultPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("File_organization_%d.xlsx", now.UnixNano()))
}

// 📄 Open creates the manifest at path, creating parent directories.
func Open(path string, opts Options) (outcome.Sink, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Errorf("creating report directory: %w", err)
	}

	if format == FormatXLSX {
		return NewXLSX(path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Errorf("creating report file: %w", err)
	}

	switch format {
	case FormatCSV:
		return NewCSV(f), nil
	case FormatJSONLZst:
		sink, err := NewJSONLZstd(f, opts.RunID)
		if err != nil {
			f.Close()
			return nil, err
		}
		return sink, nil
	default:
		return NewJSONL(f, opts.RunID), nil
	}
}

// row renders rec in Columns order.
func row(rec outcome.Record) []string {
	return []string{
		strconv.Itoa(rec.SequenceNo),
		rec.ModifiedAt.Format(ModifiedLayout),
		rec.Filename,
		rec.SourcePath,
		rec.DestinationPath,
		rec.Remark.String(),
		string(rec.Identity),
		strconv.Itoa(rec.CountWithinGroup),
		rec.Detail,
	}
}
