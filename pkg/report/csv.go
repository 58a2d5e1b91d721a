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
	"encoding/csv"
	"io"

	"github.com/walteh/datesort/pkg/outcome"
	"gitlab.com/tozd/go/errors"
)

// CSV writes one row per record and flushes after each, so an interrupted
// run leaves a readable manifest behind.
type CSV struct {
	w      *csv.Writer
	closer io.Closer
	header bool
}

var _ outcome.Sink = (*CSV)(nil)

// NewCSV writes to w; w is closed on Close when it is an io.Closer.
func NewCSV(w io.Writer) *CSV {
	c := &CSV{w: csv.NewWriter(w)}
	if closer, ok := w.(io.Closer); ok {
		c.closer = closer
	}
	return c
}

func (c *CSV) writeHeader() error {
	if c.header {
		return nil
	}
	c.header = true
	return c.w.Write(Columns)
}

func (c *CSV) Emit(_ context.Context, rec outcome.Record) error {
	if err := c.writeHeader(); err != nil {
		return errors.Errorf("writing csv header: %w", err)
	}
	if err := c.w.Write(row(rec)); err != nil {
		return errors.Errorf("writing csv row: %w", err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return errors.Errorf("flushing csv: %w", err)
	}
	return nil
}

func (c *CSV) Close() error {
	err := c.writeHeader()
	c.w.Flush()
	if err == nil {
		err = c.w.Error()
	}
	if c.closer != nil {
		if cerr := c.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return errors.Errorf("closing csv report: %w", err)
	}
	return nil
}
