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
	"strconv"

	"github.com/walteh/datesort/pkg/outcome"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

// SheetName is the only sheet of the workbook.
const SheetName = "List of files"

var columnWidths = []float64{6, 20, 35, 60, 60, 15, 20, 8, 40}

// XLSX collects rows into a workbook that is saved to disk on Close.
type XLSX struct {
	path   string
	file   *excelize.File
	row    int
	border int
}

var _ outcome.Sink = (*XLSX)(nil)

// 📊 NewXLSX prepares a workbook with a styled header row.
func NewXLSX(path string) (*XLSX, error) {
	f := excelize.NewFile()
	x := &XLSX{path: path, file: f, row: 1}
	if err := x.init(); err != nil {
		f.Close()
		return nil, errors.Errorf("preparing workbook: %w", err)
	}
	return x, nil
}

func (x *XLSX) init() error {
	f := x.file
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	borders := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Border: borders,
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	x.border, err = f.NewStyle(&excelize.Style{Border: borders})
	if err != nil {
		return err
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, "A1", last, headerStyle)
}

func (x *XLSX) Emit(_ context.Context, rec outcome.Record) error {
	x.row++
	cells := row(rec)
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	values[0] = rec.SequenceNo
	values[7] = rec.CountWithinGroup

	first := "A" + strconv.Itoa(x.row)
	last, err := excelize.CoordinatesToCellName(len(Columns), x.row)
	if err != nil {
		return errors.Errorf("addressing row %d: %w", x.row, err)
	}
	if err := x.file.SetSheetRow(SheetName, first, &values); err != nil {
		return errors.Errorf("writing row %d: %w", x.row, err)
	}
	if err := x.file.SetCellStyle(SheetName, first, last, x.border); err != nil {
		return errors.Errorf("styling row %d: %w", x.row, err)
	}
	return nil
}

// Close saves the workbook to its path.
func (x *XLSX) Close() error {
	err := x.file.SaveAs(x.path)
	if cerr := x.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Errorf("saving workbook %s: %w", x.path, err)
	}
	return nil
}
