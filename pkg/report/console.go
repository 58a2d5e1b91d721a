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

	"github.com/walteh/datesort/pkg/log"
	"github.com/walteh/datesort/pkg/outcome"
)

// Console prints each record as a styled line through the logger carried
// by the emit context (see log.NewContext).
type Console struct{}

var _ outcome.Sink = (*Console)(nil)

func (c *Console) Emit(ctx context.Context, rec outcome.Record) error {
	log.FromContext(ctx).LogRecord(ctx, rec)
	return nil
}

func (c *Console) Close() error { return nil }
